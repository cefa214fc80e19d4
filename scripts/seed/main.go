// Package main implements a standalone seed script that populates a running
// catalog service with merchant products over HTTP. It is meant for local
// development: point it at the service, run it once, and the first catalog
// page shows a realistic mix of local and upstream products.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func httpPost(url string, body any) (map[string]any, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("POST %s: status %d: %s", url, resp.StatusCode, string(raw))
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return decoded, nil
}

type seedProduct struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
}

var brands = []string{"Atelier Nord", "Lumen & Co", "Verde Home", "Kharta", "Oslo Works"}

var categories = []string{"furniture", "lighting", "home-decoration", "kitchen-accessories"}

var adjectives = []string{"Walnut", "Brushed Brass", "Matte Black", "Rattan", "Smoked Oak", "Linen"}

var nouns = []string{"Floor Lamp", "Side Table", "Wall Shelf", "Pendant Light", "Storage Bench", "Serving Tray"}

func main() {
	baseURL := getEnv("CATALOG_URL", "http://localhost:8004")
	count := 12
	if v := os.Getenv("SEED_COUNT"); v != "" {
		fmt.Sscanf(v, "%d", &count)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	log.Printf("seeding %d merchant products into %s", count, baseURL)

	created := 0
	for i := 0; i < count; i++ {
		p := seedProduct{
			Title:       fmt.Sprintf("%s %s", adjectives[rng.Intn(len(adjectives))], nouns[rng.Intn(len(nouns))]),
			Description: "Hand-finished piece from an independent maker.",
			Price:       float64(rng.Intn(38000)+1500) / 100,
			Stock:       rng.Intn(25),
			Brand:       brands[rng.Intn(len(brands))],
			Category:    categories[rng.Intn(len(categories))],
		}

		resp, err := httpPost(baseURL+"/api/v1/products", p)
		if err != nil {
			log.Printf("seed product %q: %v", p.Title, err)
			continue
		}
		created++
		if data, ok := resp["data"].(map[string]any); ok {
			log.Printf("created product %v: %s", data["id"], p.Title)
		}
	}

	log.Printf("done: %d/%d products created", created, count)
	if created == 0 {
		os.Exit(1)
	}
}
