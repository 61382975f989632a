package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"flowtier/internal/domain/entities"
	"flowtier/internal/usecase/interfaces"
)

const counterFileName = ".proposal_counter.json"

// ProposalFileRepository persists ProposalDocument entities as one JSON file
// per slug under dataDir.
//
// Storage model:
//   - <dataDir>/<slug>.json, whole-document read/write
//   - writes go to a temp file in the same directory and are renamed into
//     place, so a concurrent reader never sees a partial document
//   - dot-prefixed files are internal (id counter, webhook settings) and are
//     skipped by List
//
// Callers must hand in sanitized slugs only; the repository never joins an
// unsanitized string into a path.

type ProposalFileRepository struct {
	dataDir string

	// counterMu serializes proposal-id allocation. Document writes need no
	// lock: one file per slug, rename is atomic, same-slug races are
	// accepted last-write-wins.
	counterMu sync.Mutex
}

var _ interfaces.IProposalRepository = (*ProposalFileRepository)(nil)

func NewProposalFileRepository(dataDir string) (*ProposalFileRepository, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dataDir, err)
	}
	return &ProposalFileRepository{dataDir: dataDir}, nil
}

func (r *ProposalFileRepository) path(slug string) string {
	return filepath.Join(r.dataDir, slug+".json")
}

func (r *ProposalFileRepository) Exists(_ context.Context, slug string) (bool, error) {
	_, err := os.Stat(r.path(slug))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat proposal %s: %w", slug, err)
}

func (r *ProposalFileRepository) Get(_ context.Context, slug string) (entities.ProposalDocument, error) {
	raw, err := os.ReadFile(r.path(slug))
	if os.IsNotExist(err) {
		return entities.ProposalDocument{}, nil
	}
	if err != nil {
		return entities.ProposalDocument{}, fmt.Errorf("read proposal %s: %w", slug, err)
	}

	var doc entities.ProposalDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return entities.ProposalDocument{}, fmt.Errorf("decode proposal %s: %w", slug, err)
	}
	doc.Normalize()
	return doc, nil
}

func (r *ProposalFileRepository) Save(_ context.Context, doc entities.ProposalDocument) (entities.ProposalDocument, error) {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return entities.ProposalDocument{}, fmt.Errorf("encode proposal %s: %w", doc.Slug, err)
	}
	if err := r.writeAtomic(doc.Slug+".json", raw); err != nil {
		return entities.ProposalDocument{}, fmt.Errorf("write proposal %s: %w", doc.Slug, err)
	}
	return doc, nil
}

// writeAtomic replaces <dataDir>/<name> via temp file + rename.
func (r *ProposalFileRepository) writeAtomic(name string, raw []byte) error {
	tmp, err := os.CreateTemp(r.dataDir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, filepath.Join(r.dataDir, name)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (r *ProposalFileRepository) List(ctx context.Context) ([]entities.ProposalSummary, error) {
	dirEntries, err := os.ReadDir(r.dataDir)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}

	summaries := make([]entities.ProposalSummary, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}

		doc, err := r.Get(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			// A single corrupt file must not take the whole listing down.
			log.Printf("[proposal][repository] skipping unreadable file name=%s err=%v", name, err)
			continue
		}
		if doc.IsZero() {
			continue
		}
		summaries = append(summaries, entities.SummaryOf(doc))
	}

	// created_date descending, ties by first-persisted time ascending.
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].CreatedDate != summaries[j].CreatedDate {
			return summaries[i].CreatedDate > summaries[j].CreatedDate
		}
		return summaries[i].ReceivedAt().Before(summaries[j].ReceivedAt())
	})
	return summaries, nil
}

func (r *ProposalFileRepository) Delete(_ context.Context, slug string) (bool, error) {
	err := os.Remove(r.path(slug))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete proposal %s: %w", slug, err)
	}
	return true, nil
}

type proposalCounter struct {
	Year int   `json:"year"`
	Seq  int64 `json:"seq"`
}

// NextProposalID allocates the next sequential per-year id, e.g.
// "FT-2026-0007". The counter resets when the year rolls over.
func (r *ProposalFileRepository) NextProposalID(_ context.Context, year int) (string, error) {
	r.counterMu.Lock()
	defer r.counterMu.Unlock()

	var c proposalCounter
	raw, err := os.ReadFile(filepath.Join(r.dataDir, counterFileName))
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &c); err != nil {
			return "", fmt.Errorf("decode proposal counter: %w", err)
		}
	case os.IsNotExist(err):
		// first allocation
	default:
		return "", fmt.Errorf("read proposal counter: %w", err)
	}

	if c.Year != year {
		c = proposalCounter{Year: year}
	}
	c.Seq++

	out, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode proposal counter: %w", err)
	}
	if err := r.writeAtomic(counterFileName, out); err != nil {
		return "", fmt.Errorf("write proposal counter: %w", err)
	}
	return fmt.Sprintf("FT-%d-%04d", c.Year, c.Seq), nil
}
