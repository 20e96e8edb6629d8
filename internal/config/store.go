package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"stockledger/internal/apperror"
)

const (
	DefaultExchangeRate = 350.0
	DefaultPlatformFees = "15,20,25"
)

// Settings is the full set of values kept in the config file.
type Settings struct {
	ConnectionString string  `json:"connection_string"`
	ExchangeRate     float64 `json:"gbp_to_pkr_rate"`
	PlatformFees     string  `json:"platform_fees"`
}

type rawElement struct {
	XMLName xml.Name
	Content string `xml:",innerxml"`
}

// document mirrors config.xml. Pointer fields distinguish a missing entry
// from an empty one; unknown elements are kept so a write never drops them.
type document struct {
	XMLName          xml.Name     `xml:"config"`
	ConnectionString *string      `xml:"connectionString"`
	GbpToPkrRate     *string      `xml:"gbpToPkrRate"`
	PlatformFees     *string      `xml:"platformFees"`
	Extra            []rawElement `xml:",any"`
}

func defaultDocument() *document {
	conn := ""
	rate := formatRate(DefaultExchangeRate)
	fees := DefaultPlatformFees
	return &document{ConnectionString: &conn, GbpToPkrRate: &rate, PlatformFees: &fees}
}

// Store reads and writes settings in a local XML file. It is best-effort:
// read failures yield defaults and write failures are logged.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a Store backed by the file at path. The file is not
// touched until the first read or write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// ConnectionString returns the configured connection string, or "" when unset.
func (s *Store) ConnectionString() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	if doc.ConnectionString == nil {
		return ""
	}
	return strings.TrimSpace(*doc.ConnectionString)
}

// ExchangeRate returns PKR per GBP. Missing, unparseable or non-positive values
// fall back to DefaultExchangeRate.
func (s *Store) ExchangeRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	if doc.GbpToPkrRate == nil {
		return DefaultExchangeRate
	}
	raw := strings.TrimSpace(*doc.GbpToPkrRate)
	if raw == "" {
		return DefaultExchangeRate
	}
	rate, ok := ParseFinite(raw)
	if !ok {
		log.Warn().Str("value", raw).Msg("invalid exchange rate in config, using default")
		return DefaultExchangeRate
	}
	if rate <= 0 {
		return DefaultExchangeRate
	}
	return rate
}

// PlatformFees returns the comma separated fee list.
func (s *Store) PlatformFees() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	if doc.PlatformFees == nil {
		return DefaultPlatformFees
	}
	if fees := strings.TrimSpace(*doc.PlatformFees); fees != "" {
		return fees
	}
	return DefaultPlatformFees
}

// PlatformFeeList parses PlatformFees, skipping malformed items.
func (s *Store) PlatformFeeList() []float64 {
	return ParseFees(s.PlatformFees())
}

// Settings returns every value at once.
func (s *Store) Settings() Settings {
	return Settings{
		ConnectionString: s.ConnectionString(),
		ExchangeRate:     s.ExchangeRate(),
		PlatformFees:     s.PlatformFees(),
	}
}

// SetConnectionString stores conn, keeping the other entries.
func (s *Store) SetConnectionString(conn string) {
	_ = s.update("set connection string", func(doc *document) {
		v := strings.TrimSpace(conn)
		doc.ConnectionString = &v
	})
}

// SetExchangeRate stores rate, keeping the other entries.
func (s *Store) SetExchangeRate(rate float64) {
	_ = s.update("set exchange rate", func(doc *document) {
		v := formatRate(rate)
		doc.GbpToPkrRate = &v
	})
}

// SetPlatformFees stores fees, keeping the other entries. Blank input stores
// the default list.
func (s *Store) SetPlatformFees(fees string) {
	_ = s.update("set platform fees", func(doc *document) {
		v := strings.TrimSpace(fees)
		if v == "" {
			v = DefaultPlatformFees
		}
		doc.PlatformFees = &v
	})
}

// Apply writes all settings in a single save. Unlike the Set methods it
// reports the failure so the caller can tell the user the save did not happen.
func (s *Store) Apply(settings Settings) error {
	return s.update("save settings", func(doc *document) {
		conn := strings.TrimSpace(settings.ConnectionString)
		rate := formatRate(settings.ExchangeRate)
		fees := strings.TrimSpace(settings.PlatformFees)
		if fees == "" {
			fees = DefaultPlatformFees
		}
		doc.ConnectionString = &conn
		doc.GbpToPkrRate = &rate
		doc.PlatformFees = &fees
	})
}

func (s *Store) update(op string, mutate func(doc *document)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	mutate(doc)
	if err := s.save(doc); err != nil {
		log.Error().Err(err).Str("path", s.path).Str("op", op).Msg("failed to write config")
		return apperror.Store(op, err)
	}
	return nil
}

// load parses the file, replacing a missing or corrupt file with defaults.
// Callers must hold s.mu.
func (s *Store) load() *document {
	data, err := os.ReadFile(s.path)
	if err == nil {
		var doc document
		if err = xml.Unmarshal(data, &doc); err == nil {
			return &doc
		}
	}

	if errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", s.path).Msg("config file not found, creating defaults")
	} else {
		log.Warn().Err(err).Str("path", s.path).Msg("config file unreadable, recreating defaults")
	}

	doc := defaultDocument()
	if saveErr := s.save(doc); saveErr != nil {
		log.Error().Err(saveErr).Str("path", s.path).Msg("failed to write default config")
	}
	return doc
}

func (s *Store) save(doc *document) error {
	out, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append([]byte(xml.Header), append(out, '\n')...), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// ParseFees splits a comma separated percentage list.
func ParseFees(raw string) []float64 {
	var fees []float64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fee, ok := ParseFinite(part)
		if !ok {
			continue
		}
		fees = append(fees, fee)
	}
	return fees
}

// ParseFinite parses s as a float, treating NaN and infinities as malformed.
func ParseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// formatRate keeps a decimal point on whole numbers (350 is written as 350.0).
func formatRate(rate float64) string {
	s := strconv.FormatFloat(rate, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
