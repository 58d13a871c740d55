package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/studyhub/journey/internal/models"
)

// Archive writes journey snapshots to dated JSON files on disk. The
// archive is an audit trail alongside the primary store; losing a
// write here never fails a run.
type Archive struct {
	basePath string
	mu       sync.RWMutex
}

func NewArchive(basePath string) (*Archive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return &Archive{basePath: basePath}, nil
}

// SaveJourney writes the journey under <base>/<YYYY>/<MM>/<dateKey>.json
// and returns the file path.
func (a *Archive) SaveJourney(ctx context.Context, journey *models.Journey) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	generated := journey.Meta.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	dir := filepath.Join(a.basePath, generated.Format("2006"), generated.Format("01"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive date directory: %w", err)
	}

	data, err := json.MarshalIndent(journey, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal journey: %w", err)
	}

	path := filepath.Join(dir, journey.JourneyDate+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write journey file: %w", err)
	}

	return path, nil
}

// LoadJourney reads an archived journey back by date key.
func (a *Archive) LoadJourney(ctx context.Context, dateKey string) (*models.Journey, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	var found *models.Journey
	err := filepath.WalkDir(a.basePath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != dateKey+".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		var journey models.Journey
		if err := json.Unmarshal(data, &journey); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}

		found = &journey
		return filepath.SkipAll
	})
	if err != nil {
		return nil, err
	}

	if found == nil {
		return nil, fmt.Errorf("no archived journey for %s", dateKey)
	}

	return found, nil
}

// ListDates returns the date keys of all archived journeys, newest
// directory order last.
func (a *Archive) ListDates(ctx context.Context) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	var dates []string
	err := filepath.WalkDir(a.basePath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		dates = append(dates, strings.TrimSuffix(d.Name(), ".json"))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking archive: %w", err)
	}

	sort.Strings(dates)
	return dates, nil
}
