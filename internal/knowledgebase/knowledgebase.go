package knowledgebase

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
)

const DefaultLang = "en"

//go:embed data/*.json
var builtin embed.FS

type Followup struct {
	Question  string `json:"question"`
	YesIntent string `json:"yes_intent"`
	NoIntent  string `json:"no_intent"`
}

// Entry is one intent: how to recognise it and what to tell the user.
type Entry struct {
	Name       string
	Keywords   []string
	Steps      []string
	Followups  []Followup
	Escalation string
}

type entryJSON struct {
	Keywords   []string   `json:"keywords"`
	Steps      []string   `json:"steps"`
	Followups  []Followup `json:"followups"`
	Escalation string     `json:"escalation"`
}

// KnowledgeBase keeps intents in file order; matching relies on it.
type KnowledgeBase struct {
	entries []Entry
	index   map[string]int
}

// Parse reads a knowledge base object from r, preserving key order.
func Parse(r io.Reader) (*KnowledgeBase, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("knowledge base must be a JSON object")
	}

	kb := &KnowledgeBase{index: make(map[string]int)}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read intent name: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var raw entryJSON
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode intent %q: %w", name, err)
		}

		keywords := raw.Keywords
		if keywords == nil {
			keywords = []string{name}
		}

		entry := Entry{
			Name:       name,
			Keywords:   keywords,
			Steps:      raw.Steps,
			Followups:  raw.Followups,
			Escalation: raw.Escalation,
		}

		if i, dup := kb.index[name]; dup {
			kb.entries[i] = entry
			continue
		}
		kb.index[name] = len(kb.entries)
		kb.entries = append(kb.entries, entry)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	return kb, nil
}

func (kb *KnowledgeBase) Get(name string) (Entry, bool) {
	i, ok := kb.index[name]
	if !ok {
		return Entry{}, false
	}
	return kb.entries[i], true
}

// Entries returns the intents in file order.
func (kb *KnowledgeBase) Entries() []Entry {
	return kb.entries
}

func (kb *KnowledgeBase) Len() int {
	return len(kb.entries)
}

// Store loads knowledge bases on demand and caches them per language.
type Store struct {
	fsys  fs.FS
	mutex sync.Mutex
	cache map[string]*KnowledgeBase
}

// NewStore reads files from dir, or from the built-in bases when dir is empty.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		sub, err := fs.Sub(builtin, "data")
		if err != nil {
			return nil, err
		}
		return NewStoreFS(sub), nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("knowledge base dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("knowledge base dir %q is not a directory", dir)
	}

	return NewStoreFS(os.DirFS(dir)), nil
}

func NewStoreFS(fsys fs.FS) *Store {
	return &Store{
		fsys:  fsys,
		cache: make(map[string]*KnowledgeBase),
	}
}

// Load returns the knowledge base for lang, falling back to English when the
// language has no file. Only languages with their own file are cached under
// their name; every fallback shares the English entry.
func (s *Store) Load(lang string) (*KnowledgeBase, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if kb, ok := s.cache[lang]; ok {
		return kb, nil
	}

	kb, err := s.parse(lang)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		if kb, ok := s.cache[DefaultLang]; ok {
			return kb, nil
		}
		lang = DefaultLang
		kb, err = s.parse(lang)
	}
	if err != nil {
		return nil, err
	}

	s.cache[lang] = kb
	return kb, nil
}

func (s *Store) parse(lang string) (*KnowledgeBase, error) {
	f, err := s.fsys.Open(lang + ".json")
	if err != nil {
		return nil, fmt.Errorf("open knowledge base for %q: %w", lang, err)
	}
	defer f.Close()

	return Parse(f)
}
