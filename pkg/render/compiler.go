package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
)

var (
	// ErrCompilerMissing means the PDF toolchain is not installed on this host.
	ErrCompilerMissing = errors.New("pdf compiler is not installed")
	// ErrCompileFailed means the toolchain ran and rejected the document.
	ErrCompileFailed = errors.New("pdf compilation failed")
)

// Compiler produces a PDF for a resume.
type Compiler interface {
	Name() string
	Compile(ctx context.Context, p resume.Profile) ([]byte, error)
}

// TypstCompiler shells out to the typst CLI.
type TypstCompiler struct {
	bin string
}

func NewTypstCompiler(bin string) *TypstCompiler {
	if bin == "" {
		bin = "typst"
	}
	return &TypstCompiler{bin: bin}
}

func (c *TypstCompiler) Name() string { return "typst" }

func (c *TypstCompiler) Compile(ctx context.Context, p resume.Profile) ([]byte, error) {
	bin, err := exec.LookPath(c.bin)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCompilerMissing, c.bin, err)
	}
	dir, err := os.MkdirTemp("", "resume-typst-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "resume.typ")
	out := filepath.Join(dir, "resume.pdf")
	if err := os.WriteFile(in, []byte(Markup(p)), 0o600); err != nil {
		return nil, err
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "compile", in, out)
	cmd.Dir = dir
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrCompileFailed, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v: %s", ErrCompileFailed, err, strings.TrimSpace(stderr.String()))
	}
	return os.ReadFile(out)
}

var chromeCandidates = []string{"chromium", "chromium-browser", "google-chrome", "google-chrome-stable", "headless-shell"}

// ChromeCompiler prints the HTML rendering through headless Chrome.
type ChromeCompiler struct {
	path string
}

func NewChromeCompiler(path string) *ChromeCompiler {
	return &ChromeCompiler{path: path}
}

func (c *ChromeCompiler) Name() string { return "chrome" }

func (c *ChromeCompiler) Compile(ctx context.Context, p resume.Profile) ([]byte, error) {
	execPath, err := c.lookPath()
	if err != nil {
		return nil, err
	}
	html, err := HTML(p)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.ExecPath(execPath),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()
	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()
	cctx, cancelRun := context.WithTimeout(cctx, 60*time.Second)
	defer cancelRun()

	dir, err := os.MkdirTemp("", "resume-chrome-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)
	htmlPath := filepath.Join(dir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o600); err != nil {
		return nil, err
	}

	var pdf []byte
	err = chromedp.Run(cctx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> inches: 8.27 x 11.69
			pdf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrCompilerMissing, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrCompileFailed, err)
	}
	return pdf, nil
}

func (c *ChromeCompiler) lookPath() (string, error) {
	if c.path != "" {
		if _, err := os.Stat(c.path); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrCompilerMissing, c.path, err)
		}
		return c.path, nil
	}
	for _, name := range chromeCandidates {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: no chrome or chromium binary on PATH", ErrCompilerMissing)
}
