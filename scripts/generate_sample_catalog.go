package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateSampleCatalog writes gzipped copies of the sample catalogs so the
// .gz and S3 code paths can be tried locally:
//
//	go run scripts/generate_sample_catalog.go
//	PRODUCTS_FILE=data/products.json.gz DISCOUNTS_FILE=data/discounts.json.gz go run ./cmd/shop
//
// For CATALOG_SOURCE=s3 the object key is S3_PREFIX followed by the base name
// of PRODUCTS_FILE or DISCOUNTS_FILE, so with the settings above upload to
// catalog/products.json.gz and catalog/discounts.json.gz.
func main() {
	dataDir := "data"

	for _, name := range []string{"products.json", "discounts.json"} {
		src := filepath.Join(dataDir, name)
		dst := src + ".gz"

		if err := gzipFile(src, dst); err != nil {
			log.Fatalf("Failed to create %s: %v", dst, err)
		}
		fmt.Printf("Created %s\n", dst)
	}
}

func gzipFile(src, dst string) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	file, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	if _, err := gzipWriter.Write(content); err != nil {
		return err
	}
	return gzipWriter.Close()
}
