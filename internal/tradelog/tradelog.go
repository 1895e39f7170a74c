package tradelog

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"trade-reconciler/internal/types"
)

const ext = ".jsonl"

// Entry is one journal line: a reconstructed trade plus where it came from.
type Entry struct {
	Recorded string `json:"recorded"`
	Source   string `json:"source,omitempty"`
	types.Trade
}

// Journal appends trades as JSON lines to one file per day under dir.
type Journal struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

func New(dir string) *Journal {
	return &Journal{dir: dir, now: time.Now}
}

func (j *Journal) dailyFilepath(t time.Time) string {
	return filepath.Join(j.dir, t.Format("2006-01-02")+ext)
}

// Append writes trades to today's file and returns its path.
func (j *Journal) Append(source string, trades []types.Trade) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	p := j.dailyFilepath(now)
	if len(trades) == 0 {
		return p, nil
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	stamp := now.Format("2006-01-02 15:04:05")
	for _, t := range trades {
		b, err := json.Marshal(Entry{Recorded: stamp, Source: source, Trade: t})
		if err != nil {
			return "", fmt.Errorf("failed to encode trade %s: %w", t.ID, err)
		}
		if _, err := fmt.Fprintln(w, string(b)); err != nil {
			return "", err
		}
	}
	return p, w.Flush()
}

// ReadDay returns the entries recorded on day t, reading the gzipped file
// when the plain one has already been compressed. A missing day is empty.
func (j *Journal) ReadDay(t time.Time) ([]Entry, error) {
	p := j.dailyFilepath(t)
	var r io.Reader
	f, err := os.Open(p)
	if os.IsNotExist(err) {
		f, err = os.Open(p + ".gz")
		if os.IsNotExist(err) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		defer f.Close()
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s.gz: %w", p, err)
		}
		defer gr.Close()
		r = gr
	} else if err != nil {
		return nil, err
	} else {
		defer f.Close()
		r = f
	}

	var out []Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, sc.Err()
}

// CompressOlder gzips journal files not modified for retentionDays days.
// Files that fail to compress are left in place.
func (j *Journal) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := j.now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(j.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(p, ext) {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		// an earlier run already compressed it
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			return nil
		}
		if err := gzipFile(p, gz); err != nil {
			_ = os.Remove(gz)
			return nil
		}
		_ = os.Remove(p)
		return nil
	})
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		_ = gw.Close()
		_ = out.Close()
		return err
	}
	if err := gw.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
