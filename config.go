package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/df07/go-beam-raytracer/pkg/output"
)

// Config holds the command line settings after env and flags are applied
type Config struct {
	Scene       string // Preset ID, "file:<name>", or path to a .json scene
	ScenesDir   string // Directory scanned for scene files
	Width       int    // 0 keeps the scene's width
	Height      int    // 0 keeps the scene's height
	Samples     int    // 0 keeps the scene's samples
	Depth       int    // -1 keeps the scene's recursion depth
	Beam        int    // 0 keeps the scene's beam rays count
	Workers     int    // 0 uses every CPU
	Passes      int
	Supersample int
	Seed        int64
	Out         string // Output file name relative to OutputDir
	OutputDir   string
	Upload      bool
	List        bool
	Help        bool
	S3          output.S3Config
}

// getEnv returns an environment variable or a fallback
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable, ignoring malformed values
func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// loadEnv reads the .env file in RAYTRACER_ROOT_DIR, if there is one
func loadEnv() {
	rootDir := getEnv("RAYTRACER_ROOT_DIR", ".")
	_ = godotenv.Load(path.Join(rootDir, ".env"))
}

// s3ConfigFromEnv reads the object storage settings
func s3ConfigFromEnv() output.S3Config {
	return output.S3Config{
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		Region:    getEnv("S3_REGION", "us-east-1"),
		Bucket:    os.Getenv("S3_BUCKET"),
		Prefix:    getEnv("S3_PREFIX", "renders"),
		ACL:       os.Getenv("S3_ACL"),
		CDNURL:    os.Getenv("CDN_URL"),
		Timeout:   time.Duration(getEnvInt("S3_UPLOAD_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

// newFlagSet binds the command line flags to cfg, with defaults from the environment
func newFlagSet(cfg *Config, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&cfg.Scene, "scene", getEnv("RAYTRACER_SCENE", "triangles"), "Scene: preset name, file:<name>, or path to a .json scene")
	fs.StringVar(&cfg.ScenesDir, "scenes", getEnv("RAYTRACER_SCENES_DIR", "scenes"), "Directory containing scene files")
	fs.IntVar(&cfg.Width, "width", 0, "Image width (0 = scene default)")
	fs.IntVar(&cfg.Height, "height", 0, "Image height (0 = scene default)")
	fs.IntVar(&cfg.Samples, "samples", 0, "Viewport rays per pixel (0 = scene default)")
	fs.IntVar(&cfg.Depth, "depth", -1, "Recursion depth (-1 = scene default)")
	fs.IntVar(&cfg.Beam, "beam", 0, "Beam rays per reflection (0 = scene default)")
	fs.IntVar(&cfg.Workers, "workers", getEnvInt("RAYTRACER_WORKERS", 0), "Number of parallel workers (0 = auto-detect CPU count)")
	fs.IntVar(&cfg.Passes, "passes", 1, "Number of progressive passes")
	fs.IntVar(&cfg.Supersample, "supersample", 1, "Render at this multiple of the output size and downscale")
	fs.Int64Var(&cfg.Seed, "seed", 42, "Random seed")
	fs.StringVar(&cfg.Out, "out", "", "Output file name (default <scene>/render_<timestamp>.png)")
	fs.StringVar(&cfg.OutputDir, "output", getEnv("RAYTRACER_OUTPUT_DIR", "output"), "Output directory")
	fs.BoolVar(&cfg.Upload, "upload", false, "Also upload the render to S3")
	fs.BoolVar(&cfg.List, "list", false, "List available scenes")
	fs.BoolVar(&cfg.Help, "help", false, "Show help information")
	return fs
}

// parseConfig builds the configuration from the environment, then args
func parseConfig(args []string, stderr io.Writer) (*Config, error) {
	cfg := &Config{
		S3: s3ConfigFromEnv(),
	}

	if err := newFlagSet(cfg, stderr).Parse(args); err != nil {
		return nil, err
	}
	if cfg.Upload && !cfg.S3.Enabled() {
		return nil, fmt.Errorf("-upload requires S3_BUCKET to be set")
	}
	return cfg, nil
}
