package app

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.trai.ch/modelcache/internal/core/domain"
	"go.trai.ch/modelcache/internal/ui/style"
)

const labelWidth = 12

// report renders command results for humans.
type report struct {
	w       io.Writer
	heading lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

func newReport(w io.Writer) *report {
	r := style.Renderer(w)

	return &report{
		w:       w,
		heading: r.NewStyle().Inherit(style.Heading),
		label:   r.NewStyle().Inherit(style.Label).Width(labelWidth),
		value:   r.NewStyle().Inherit(style.Value),
		success: r.NewStyle().Inherit(style.Success),
		warning: r.NewStyle().Inherit(style.Warning),
		failure: r.NewStyle().Inherit(style.Failure),
	}
}

func (p *report) title(text string) {
	_, _ = fmt.Fprintln(p.w, p.heading.Render(text))
}

func (p *report) row(label, value string) {
	_, _ = fmt.Fprintf(p.w, "  %s%s\n", p.label.Render(label), p.value.Render(value))
}

func (p *report) usage(cfg domain.Config, u domain.DiskUsage, now time.Time) {
	p.title("Disk cache " + cfg.CacheDir)
	p.row("Records", strconv.Itoa(u.Records))
	if u.Broken > 0 {
		p.row("Unreadable", p.warning.Render(style.Attention+" "+strconv.Itoa(u.Broken)))
	}
	p.row("Size", formatBytes(u.Bytes))
	if u.Records > 0 {
		p.row("Oldest", humanize.RelTime(u.Oldest, now, "ago", "from now"))
		p.row("Newest", humanize.RelTime(u.Newest, now, "ago", "from now"))
	}

	p.title("Configuration")
	p.row("Memory", formatBytes(cfg.MemoryBudget))
	p.row("Compression", string(cfg.CompressionLevel))
	p.row("Max age", durationOrOff(cfg.Cleanup.MaxAge))
	if cfg.Cleanup.MaxTotalBytes > 0 {
		p.row("Max size", formatBytes(cfg.Cleanup.MaxTotalBytes))
	} else {
		p.row("Max size", "off")
	}
}

func (p *report) cleanup(verb string, r domain.CleanupReport) {
	_, _ = fmt.Fprintf(p.w, "%s %s %d of %d records (%s), %s remaining\n",
		p.success.Render(style.Cached),
		verb,
		r.Removed,
		r.Scanned,
		formatBytes(r.RemovedBytes),
		formatBytes(r.RemainingBytes),
	)
}

func (p *report) record(dir string, key domain.CacheKey, res domain.ReadResult, now time.Time) {
	p.title("Source " + key.Path)
	p.row("Size", formatBytes(key.Size))
	p.row("Modified", time.Unix(0, key.ModTime).UTC().Format(time.RFC3339))
	p.row("Key", key.Fingerprint())
	p.row("Record", filepath.Join(dir, domain.RecordFileName(key)))

	switch res.Status {
	case domain.ReadMiss:
		p.row("Status", p.label.UnsetWidth().Render(style.Absent+" not cached"))
	case domain.ReadCorrupt:
		p.row("Status", p.failure.Render(style.Corrupt+" corrupt"))
		if res.Reason != nil {
			p.row("Reason", res.Reason.Error())
		}
	case domain.ReadValid:
		h := res.Record.Header
		p.row("Status", p.success.Render(style.Cached+" cached"))
		p.row("Format", h.Format)
		p.row("Compression", h.Compression.String())
		p.row("Payload", formatBytes(h.UncompressedSize)+" ("+formatBytes(h.CompressedSize)+" on disk)")
		p.row("Checksum", fmt.Sprintf("%016x", h.Checksum))
		p.row("Written", humanize.RelTime(h.WrittenAt, now, "ago", "from now"))
	}
}

func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

func durationOrOff(d time.Duration) string {
	if d <= 0 {
		return "off"
	}
	return d.String()
}
