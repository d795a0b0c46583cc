package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/happychuks/linkedin-sequence-gen/internal/apperr"
	"github.com/happychuks/linkedin-sequence-gen/internal/model"
	"github.com/happychuks/linkedin-sequence-gen/internal/repository/db"
)

// Ensure Store implements db.Database interface
var _ db.Database = (*Store)(nil)

// Store keeps every entity in maps keyed by integer id.
// Sequence versions form an arena; parent links are ids plus a child index.
type Store struct {
	mu sync.RWMutex

	prospects     map[int64]db.Prospect
	prospectByURL map[string]int64
	prompts       []db.Prompt
	tovConfigs    map[int64]db.TovConfig
	sequences     map[int64]db.Sequence
	children      map[int64][]int64

	nextProspectID int64
	nextPromptID   int64
	nextTovID      int64
	nextSequenceID int64

	now func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		prospects:     make(map[int64]db.Prospect),
		prospectByURL: make(map[string]int64),
		tovConfigs:    make(map[int64]db.TovConfig),
		sequences:     make(map[int64]db.Sequence),
		children:      make(map[int64][]int64),
		now:           time.Now,
	}
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}

// UpsertProspect returns the prospect for url, creating it when absent
func (s *Store) UpsertProspect(ctx context.Context, url string) (*db.Prospect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.prospectByURL[url]; ok {
		p := s.prospects[id]
		return &p, nil
	}

	s.nextProspectID++
	p := db.Prospect{ID: s.nextProspectID, URL: url, CreatedAt: s.now()}
	s.prospects[p.ID] = p
	s.prospectByURL[url] = p.ID
	return &p, nil
}

// GetProspect retrieves a prospect by id
func (s *Store) GetProspect(ctx context.Context, id int64) (*db.Prospect, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prospects[id]
	if !ok {
		return nil, apperr.NotFound("prospect %d not found", id)
	}
	return &p, nil
}

// GetLatestPrompt returns the highest version prompt, or nil when none exists
func (s *Store) GetLatestPrompt(ctx context.Context) (*db.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.prompts) == 0 {
		return nil, nil
	}
	p := s.prompts[len(s.prompts)-1]
	return &p, nil
}

// CreatePrompt stores content as the next prompt version
func (s *Store) CreatePrompt(ctx context.Context, content string) (*db.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version := 1
	if n := len(s.prompts); n > 0 {
		version = s.prompts[n-1].Version + 1
	}
	s.nextPromptID++
	p := db.Prompt{ID: s.nextPromptID, Version: version, Content: content, CreatedAt: s.now()}
	s.prompts = append(s.prompts, p)
	return &p, nil
}

// FindOrCreateTovConfig matches on exact tone values, and on name when one is given
func (s *Store) FindOrCreateTovConfig(ctx context.Context, tone model.ToneVector, name *string) (*db.TovConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.sortedTovIDs() {
		cfg := s.tovConfigs[id]
		if cfg.Tone != tone {
			continue
		}
		if name != nil && (cfg.Name == nil || *cfg.Name != *name) {
			continue
		}
		return &cfg, nil
	}

	s.nextTovID++
	cfg := db.TovConfig{ID: s.nextTovID, Name: name, Tone: tone, CreatedAt: s.now()}
	s.tovConfigs[cfg.ID] = cfg
	return &cfg, nil
}

// UpsertTovPreset inserts or updates a preset keyed by tone and name
func (s *Store) UpsertTovPreset(ctx context.Context, preset db.TovConfig) (*db.TovConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.sortedTovIDs() {
		cfg := s.tovConfigs[id]
		if cfg.Tone == preset.Tone && sameName(cfg.Name, preset.Name) {
			cfg.Description = preset.Description
			cfg.IsPreset = preset.IsPreset
			s.tovConfigs[id] = cfg
			return &cfg, nil
		}
	}

	s.nextTovID++
	preset.ID = s.nextTovID
	preset.CreatedAt = s.now()
	s.tovConfigs[preset.ID] = preset
	return &preset, nil
}

// ListTovPresets returns presets ordered by name
func (s *Store) ListTovPresets(ctx context.Context) ([]db.TovConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var presets []db.TovConfig
	for _, cfg := range s.tovConfigs {
		if cfg.IsPreset {
			presets = append(presets, cfg)
		}
	}
	sort.Slice(presets, func(i, j int) bool {
		return derefName(presets[i].Name) < derefName(presets[j].Name)
	})
	return presets, nil
}

// CreateSequence appends a version node to the arena
func (s *Store) CreateSequence(ctx context.Context, seq db.NewSequence) (*db.Sequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prospect, ok := s.prospects[seq.ProspectID]
	if !ok {
		return nil, apperr.NotFound("prospect %d not found", seq.ProspectID)
	}
	if seq.ParentSequenceID != nil {
		if _, ok := s.sequences[*seq.ParentSequenceID]; !ok {
			return nil, apperr.NotFound("parent sequence %d not found", *seq.ParentSequenceID)
		}
	}

	version := seq.Version
	if version < 1 {
		version = 1
	}

	s.nextSequenceID++
	stored := db.Sequence{
		ID:               s.nextSequenceID,
		ProspectID:       seq.ProspectID,
		ProspectURL:      prospect.URL,
		PromptID:         seq.PromptID,
		TovConfigID:      copyID(seq.TovConfigID),
		Tone:             seq.Tone,
		Version:          version,
		ParentSequenceID: copyID(seq.ParentSequenceID),
		CompanyContext:   seq.CompanyContext,
		SequenceLength:   seq.SequenceLength,
		Result:           seq.Result.Clone(),
		CreatedAt:        s.now(),
	}
	s.sequences[stored.ID] = stored
	if stored.ParentSequenceID != nil {
		parent := *stored.ParentSequenceID
		s.children[parent] = append(s.children[parent], stored.ID)
	}

	out := cloneSequence(stored)
	return &out, nil
}

// GetSequence retrieves a sequence by id
func (s *Store) GetSequence(ctx context.Context, id int64) (*db.Sequence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq, ok := s.sequences[id]
	if !ok {
		return nil, apperr.NotFound("sequence %d not found", id)
	}
	out := cloneSequence(seq)
	return &out, nil
}

// UpdateSequenceResult replaces the stored generation result
func (s *Store) UpdateSequenceResult(ctx context.Context, id int64, result model.GenerationResult) (*db.Sequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.sequences[id]
	if !ok {
		return nil, apperr.NotFound("sequence %d not found", id)
	}
	seq.Result = result.Clone()
	s.sequences[id] = seq
	out := cloneSequence(seq)
	return &out, nil
}

// DeleteSequence removes a node. Its children become roots.
func (s *Store) DeleteSequence(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.sequences[id]
	if !ok {
		return apperr.NotFound("sequence %d not found", id)
	}
	delete(s.sequences, id)

	// Mirror ON DELETE SET NULL
	for _, childID := range s.children[id] {
		if child, ok := s.sequences[childID]; ok {
			child.ParentSequenceID = nil
			s.sequences[childID] = child
		}
	}
	delete(s.children, id)

	if seq.ParentSequenceID != nil {
		parent := *seq.ParentSequenceID
		siblings := s.children[parent]
		for i, c := range siblings {
			if c == id {
				s.children[parent] = append(siblings[:i:i], siblings[i+1:]...)
				break
			}
		}
	}
	return nil
}

// FindSequencesByIDs returns the sequences that exist, ordered by version ascending
func (s *Store) FindSequencesByIDs(ctx context.Context, ids []int64) ([]db.Sequence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]bool, len(ids))
	var out []db.Sequence
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if seq, ok := s.sequences[id]; ok {
			out = append(out, cloneSequence(seq))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Version != out[j].Version {
			return out[i].Version < out[j].Version
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// FindRefinementsByParentID returns the direct children of parentID, newest first
func (s *Store) FindRefinementsByParentID(ctx context.Context, parentID int64) ([]db.Sequence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]db.Sequence, 0, len(s.children[parentID]))
	for _, id := range s.children[parentID] {
		out = append(out, cloneSequence(s.sequences[id]))
	}
	sortNewestFirst(out)
	return out, nil
}

// FindSequencesByProspectID returns every version for a prospect, newest first
func (s *Store) FindSequencesByProspectID(ctx context.Context, prospectID int64) ([]db.Sequence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []db.Sequence
	for _, seq := range s.sequences {
		if seq.ProspectID == prospectID {
			out = append(out, cloneSequence(seq))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// GetSequenceStats counts direct refinements and the highest version among the node and its children
func (s *Store) GetSequenceStats(ctx context.Context, id int64) (*db.SequenceStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq, ok := s.sequences[id]
	if !ok {
		return nil, apperr.NotFound("sequence %d not found", id)
	}

	stats := &db.SequenceStats{
		TotalRefinements: len(s.children[id]),
		LatestVersion:    seq.Version,
		CreatedAt:        seq.CreatedAt,
	}
	for _, childID := range s.children[id] {
		if v := s.sequences[childID].Version; v > stats.LatestVersion {
			stats.LatestVersion = v
		}
	}
	return stats, nil
}

func (s *Store) sortedTovIDs() []int64 {
	ids := make([]int64, 0, len(s.tovConfigs))
	for id := range s.tovConfigs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortNewestFirst(seqs []db.Sequence) {
	sort.SliceStable(seqs, func(i, j int) bool {
		if !seqs[i].CreatedAt.Equal(seqs[j].CreatedAt) {
			return seqs[i].CreatedAt.After(seqs[j].CreatedAt)
		}
		return seqs[i].ID > seqs[j].ID
	})
}

func cloneSequence(seq db.Sequence) db.Sequence {
	out := seq
	out.TovConfigID = copyID(seq.TovConfigID)
	out.ParentSequenceID = copyID(seq.ParentSequenceID)
	out.Result = seq.Result.Clone()
	return out
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func sameName(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func derefName(name *string) string {
	if name == nil {
		return ""
	}
	return *name
}
