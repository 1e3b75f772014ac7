package main

import (
	"flag"
	"log"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/df07/go-beam-raytracer/pkg/output"
	"github.com/df07/go-beam-raytracer/web/server"
)

// getEnv returns an environment variable or a fallback
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return fallback
}

func main() {
	rootDir := getEnv("RAYTRACER_ROOT_DIR", ".")
	_ = godotenv.Load(path.Join(rootDir, ".env"))

	port := flag.Int("port", getEnvInt("PORT", 8080), "Port to serve on")
	scenesDir := flag.String("scenes", getEnv("RAYTRACER_SCENES_DIR", "scenes"), "Directory containing scene files")
	timeout := flag.Duration("timeout", time.Duration(getEnvInt("RENDER_TIMEOUT_SECONDS", 20))*time.Second, "Timeout for a single render")
	flag.Parse()

	cfg := server.Config{
		Port:          *port,
		ScenesDir:     *scenesDir,
		AccessKey:     os.Getenv("RENDER_ACCESS_KEY"),
		RenderTimeout: *timeout,
		S3: output.S3Config{
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Bucket:    os.Getenv("S3_BUCKET"),
			Prefix:    getEnv("S3_PREFIX", "renders"),
			ACL:       getEnv("S3_ACL", "public-read"),
			CDNURL:    os.Getenv("CDN_URL"),
		},
	}

	webServer, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	log.Printf("Beam Raytracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", *port)
	if cfg.S3.Enabled() {
		log.Printf("Uploading renders to bucket %s", cfg.S3.Bucket)
	}

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
