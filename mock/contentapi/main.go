// Command contentapi serves the video, podcast and book feeds the catalog
// ingests, for local development.
package main

import (
	_ "embed"
	"encoding/json"
	"log"
	"math/rand/v2"
	"time"

	"github.com/gofiber/fiber/v2"
)

var (
	//go:embed data/videos.json
	videosJSON []byte
	//go:embed data/podcasts.json
	podcastsJSON []byte
	//go:embed data/books.xml
	booksXML []byte
)

const defaultPerPage = 2

type pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

type page struct {
	Items      []json.RawMessage `json:"items"`
	Pagination pagination        `json:"pagination"`
}

func main() {
	videos := mustItems(videosJSON)
	podcasts := mustItems(podcastsJSON)

	app := fiber.New(fiber.Config{AppName: "contentapi"})
	app.Use(latency)

	app.Get("/api/videos", paginated("videos", videos))
	app.Get("/api/podcasts", paginated("podcasts", podcasts))
	app.Get("/feed", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
		log.Printf("[contentapi] %s %s - books", c.Method(), c.OriginalURL())
		return c.Send(booksXML)
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	log.Println("mock content API running on :8081")
	log.Fatal(app.Listen(":8081"))
}

// latency simulates 50-200ms of network delay.
func latency(c *fiber.Ctx) error {
	time.Sleep(time.Duration(50+rand.IntN(150)) * time.Millisecond)
	return c.Next()
}

func paginated(name string, items []json.RawMessage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		perPage := c.QueryInt("per_page", defaultPerPage)
		if perPage < 1 {
			perPage = defaultPerPage
		}
		totalPages := (len(items) + perPage - 1) / perPage
		n := c.QueryInt("page", 1)
		if n < 1 {
			n = 1
		}

		start := min((n-1)*perPage, len(items))
		end := min(start+perPage, len(items))

		log.Printf("[contentapi] %s %s - %s page %d/%d", c.Method(), c.OriginalURL(), name, n, totalPages)

		return c.JSON(page{
			Items:      items[start:end],
			Pagination: pagination{Page: n, PerPage: perPage, TotalPages: totalPages},
		})
	}
}

func mustItems(data []byte) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		log.Fatalf("decoding embedded feed: %v", err)
	}
	return items
}
