package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/ff/v4"
	"gopkg.in/yaml.v3"

	"github.com/zombor/receipt-scanner/internal/receipt"
	"github.com/zombor/receipt-scanner/internal/render"
	"github.com/zombor/receipt-scanner/internal/scanning"
)

// rootConfig holds the flags shared by every subcommand
type rootConfig struct {
	flags   *ff.FlagSet
	command *ff.Command

	logLevel      *string
	scannerType   *string
	tesseractLang *string
	geminiKey     *string
	geminiModel   *string
	ollamaURL     *string
	ollamaModel   *string
}

func newRootCommand() *rootConfig {
	cfg := &rootConfig{}
	fs := ff.NewFlagSet("receipt-scanner")
	cfg.logLevel = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
	cfg.scannerType = fs.StringLong("scanner", "tesseract", "Scanner type: 'tesseract', 'gemini' or 'ollama'")
	cfg.tesseractLang = fs.StringLong("tesseract-lang", "eng", "Tesseract languages, joined with '+' (e.g. eng+deu)")
	cfg.geminiKey = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
	cfg.geminiModel = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
	cfg.ollamaURL = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
	cfg.ollamaModel = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, qwen2-vl, minicpm-v)")
	fs.StringLong("config", "", "YAML config file (optional)")
	fs.BoolLong("version", "Show version information")
	cfg.flags = fs

	cfg.command = &ff.Command{
		Name:      "receipt-scanner",
		Usage:     "receipt-scanner [FLAGS] <SUBCOMMAND> ...",
		ShortHelp: "turn photographed receipts into structured data",
		Flags:     fs,
		Subcommands: []*ff.Command{
			newServeCommand(cfg),
			newScanCommand(cfg),
			newParseCommand(cfg),
			newRenderCommand(cfg),
		},
	}
	return cfg
}

// newScanner builds the configured OCR collaborator
func (cfg *rootConfig) newScanner() (scanning.Scanner, error) {
	switch *cfg.scannerType {
	case "tesseract":
		langs := strings.Split(*cfg.tesseractLang, "+")
		slog.Info("Initializing Tesseract scanner...", "languages", langs)
		return scanning.NewTesseract(langs...), nil
	case "gemini":
		apiKey := *cfg.geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("gemini API key is required: set --gemini-key or GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini scanner...", "model", *cfg.geminiModel)
		return scanning.NewGemini(apiKey, *cfg.geminiModel)
	case "ollama":
		slog.Info("Initializing Ollama scanner...", "url", *cfg.ollamaURL, "model", *cfg.ollamaModel)
		return scanning.NewOllama(*cfg.ollamaURL, *cfg.ollamaModel)
	default:
		return nil, fmt.Errorf("invalid scanner type %q: want tesseract, gemini or ollama", *cfg.scannerType)
	}
}

func newServeCommand(cfg *rootConfig) *ff.Command {
	fs := ff.NewFlagSet("serve").SetParent(cfg.flags)
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		storagePath = fs.StringLong("storage", "./results", "Directory for scan results and rendered images")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
	)

	return &ff.Command{
		Name:      "serve",
		Usage:     "receipt-scanner serve [FLAGS]",
		ShortHelp: "run the HTTP API",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			if err := setupLogging(*cfg.logLevel); err != nil {
				return err
			}

			scanner, err := cfg.newScanner()
			if err != nil {
				return err
			}
			defer scanner.Close()

			slog.Info("Initializing storage...", "path", *storagePath)
			store, err := receipt.NewLocalStorage(*storagePath)
			if err != nil {
				return err
			}

			server := receipt.NewServer(receipt.NewService(scanner, store), receipt.BasicAuth{
				Username: *authUser,
				Password: *authPass,
			})
			if *authUser != "" || *authPass != "" {
				slog.Info("Basic auth enabled", "user", *authUser)
			}

			return server.Start(ctx, fmt.Sprintf(":%d", *port))
		},
	}
}

func newScanCommand(cfg *rootConfig) *ff.Command {
	fs := ff.NewFlagSet("scan").SetParent(cfg.flags)
	var (
		outputDir = fs.StringLong("output", "", "Directory to write one <name>.json per image (default: stdout only)")
		format    = fs.StringLong("format", "json", "Output format: json or yaml")
	)

	return &ff.Command{
		Name:      "scan",
		Usage:     "receipt-scanner scan [FLAGS] <image>...",
		ShortHelp: "OCR and parse receipt images or PDFs",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("scan requires at least one image")
			}
			if err := setupLogging(*cfg.logLevel); err != nil {
				return err
			}

			scanner, err := cfg.newScanner()
			if err != nil {
				return err
			}
			defer scanner.Close()

			var store receipt.Storage
			if *outputDir != "" {
				local, err := receipt.NewLocalStorage(*outputDir)
				if err != nil {
					return err
				}
				store = local
			}

			return scanAll(ctx, receipt.NewService(scanner, nil), store, args, *format, os.Stdout, os.Stderr)
		},
	}
}

// scanAll scans every path in turn. A failing image is reported as a
// structured error object and the batch carries on.
func scanAll(ctx context.Context, service *receipt.Service, store receipt.Storage, paths []string, format string, stdout, stderr io.Writer) error {
	failed := 0
	for _, path := range paths {
		if err := scanOne(ctx, service, store, path, format, stdout); err != nil {
			slog.Error("Failed to scan receipt", "path", path, "error", err)
			failed++
			if encErr := json.NewEncoder(stderr).Encode(receipt.NewErrorResponse(err)); encErr != nil {
				return encErr
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d receipts failed", failed, len(paths))
	}
	return nil
}

func scanOne(ctx context.Context, service *receipt.Service, store receipt.Storage, path, format string, stdout io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", receipt.ErrInvalidInput, path, err)
	}

	scan, err := service.ProcessReceipt(ctx, filepath.Base(path), data, receipt.ContentTypeFor(path))
	if err != nil {
		return err
	}

	if store != nil {
		out, err := json.MarshalIndent(scan.Receipt, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		name, err := store.Save(receipt.ResultFilename(path), out)
		if err != nil {
			return fmt.Errorf("saving result: %w", err)
		}
		slog.Info("Wrote result", "path", path, "result", name)
	}

	return writeResult(stdout, format, scan.Receipt)
}

func newParseCommand(cfg *rootConfig) *ff.Command {
	fs := ff.NewFlagSet("parse").SetParent(cfg.flags)
	format := fs.StringLong("format", "json", "Output format: json or yaml")

	return &ff.Command{
		Name:      "parse",
		Usage:     "receipt-scanner parse [FLAGS] <text-file|->",
		ShortHelp: "interpret OCR text that was already extracted",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("parse requires exactly one text file, or - for stdin")
			}
			if err := setupLogging(*cfg.logLevel); err != nil {
				return err
			}

			text, err := readInput(args[0], os.Stdin)
			if err != nil {
				return err
			}
			service := receipt.NewService(nil, nil)
			return writeResult(os.Stdout, *format, service.ParseText(string(text)))
		},
	}
}

func newRenderCommand(cfg *rootConfig) *ff.Command {
	fs := ff.NewFlagSet("render").SetParent(cfg.flags)

	return &ff.Command{
		Name:      "render",
		Usage:     "receipt-scanner render <receipt.json> <output.png>",
		ShortHelp: "draw a receipt record as a PNG image",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("render requires a receipt JSON file and an output path")
			}
			if err := setupLogging(*cfg.logLevel); err != nil {
				return err
			}
			return renderFile(args[0], args[1], os.Stdout)
		},
	}
}

// renderFile draws the receipt record in jsonPath into a PNG at outputPath
func renderFile(jsonPath, outputPath string, stdout io.Writer) error {
	data, err := readInput(jsonPath, os.Stdin)
	if err != nil {
		return err
	}
	rec, err := receipt.DecodeReceipt(data)
	if err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outputPath, err)
	}
	if err := render.Render(f, rec); err != nil {
		f.Close()
		return fmt.Errorf("%w: %w", receipt.ErrRender, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", outputPath, err)
	}

	return writeResult(stdout, "json", receipt.Rendered{
		Message:  "Receipt generated successfully",
		Filename: filepath.Base(outputPath),
		Path:     outputPath,
	})
}

// readInput reads a whole file, or stdin when path is "-"
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", receipt.ErrInvalidInput, path, err)
	}
	return data, nil
}

// writeResult prints v as indented JSON or as YAML
func writeResult(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q: want json or yaml", format)
	}
}
