// Package render rasterizes single PDF pages for the vision signature check.
package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"leaseintake/internal/logging"
)

// Runner lets tests stub the external rasterizer.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type ExecRunner struct {
	Log *slog.Logger
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	log := logging.OrDefault(r.Log)
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	if err != nil {
		log.Error("exec failed",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
			"stderr", truncate(errb.String(), 8<<10),
		)
	} else {
		log.Debug("exec ok", "cmd", name, "duration_ms", time.Since(start).Milliseconds(), "stdout_bytes", out.Len())
	}
	return out.Bytes(), errb.Bytes(), err
}

type Renderer struct {
	runner   Runner
	pdftoppm string
	dpi      int
}

func NewRenderer(runner Runner, pdftoppm string, dpi int) *Renderer {
	if pdftoppm == "" {
		pdftoppm = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = 300
	}
	return &Renderer{runner: runner, pdftoppm: pdftoppm, dpi: dpi}
}

// RenderPage returns the PNG bytes of one 1-based page.
func (r *Renderer) RenderPage(ctx context.Context, pdfPath string, page int) ([]byte, error) {
	if page < 1 {
		return nil, fmt.Errorf("render page %d: page numbers start at 1", page)
	}
	tmpDir, err := os.MkdirTemp("", "leaseintake-page-*")
	if err != nil {
		return nil, fmt.Errorf("render temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	n := strconv.Itoa(page)
	// pdftoppm -r 300 -png -f N -l N -singlefile <in.pdf> <tmp/page>
	_, errb, err := r.runner.Run(ctx, r.pdftoppm, "-r", strconv.Itoa(r.dpi), "-png", "-f", n, "-l", n, "-singlefile", pdfPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w: %s", page, err, truncate(string(errb), 512))
	}
	img, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("render page %d: read image: %w", page, err)
	}
	if len(img) == 0 {
		return nil, fmt.Errorf("render page %d: empty image", page)
	}
	return img, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
