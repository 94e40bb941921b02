package htmldoc

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// StyleKey interns a byte-identical inline style string; two nodes
// with the same style string share one StyleKey (§3 StyleInfo:
// "Interned").
type StyleKey string

// StyleInfo is the resolved, computed style for a node (§3).
type StyleInfo struct {
	FontSizePt   float64
	HasFontSize  bool
	FontWeight   string
	IsBold       bool
	IsItalic     bool
	IsCentered   bool
	IsUnderlined bool
	MarginTopPt  float64
	MarginBotPt  float64
	Display      string
}

// StyleCache parses and interns inline style attributes, bounded by an
// LRU so long filings with thousands of distinct declarations don't
// grow memory unbounded (§4.3). Per-Document, never shared (§5).
type StyleCache struct {
	cache  *lru.Cache[StyleKey, StyleInfo]
	parent map[StyleKey]StyleKey // ancestor style for inheritance resolution
}

// NewStyleCache builds a StyleCache bounded to size entries
// (ParserConfig.CacheSize, default 1000).
func NewStyleCache(size int) *StyleCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	c, _ := lru.New[StyleKey, StyleInfo](size)
	return &StyleCache{cache: c, parent: map[StyleKey]StyleKey{}}
}

// Intern parses a raw `style="..."` attribute value, interns it by the
// raw string, and records parentKey for inheritance walks. Returns the
// StyleKey to attach to the node.
func (s *StyleCache) Intern(raw string, parentKey StyleKey) StyleKey {
	key := StyleKey(raw)
	if _, ok := s.cache.Get(key); !ok {
		s.cache.Add(key, parseStyle(raw))
	}
	if parentKey != "" {
		s.parent[key] = parentKey
	}
	return key
}

// Resolved walks the ancestor chain and merges every declared property
// (see merge) from the outermost ancestor down to the node's own style.
func (s *StyleCache) Resolved(key StyleKey) StyleInfo {
	var chain []StyleInfo
	seen := map[StyleKey]bool{}
	for k := key; k != ""; k = s.parent[k] {
		if seen[k] {
			break
		}
		seen[k] = true
		if info, ok := s.cache.Get(k); ok {
			chain = append(chain, info)
		} else {
			break
		}
	}
	var resolved StyleInfo
	for i := len(chain) - 1; i >= 0; i-- {
		merge(&resolved, chain[i])
	}
	return resolved
}

func merge(dst *StyleInfo, src StyleInfo) {
	if src.HasFontSize {
		dst.FontSizePt = src.FontSizePt
		dst.HasFontSize = true
	}
	if src.FontWeight != "" {
		dst.FontWeight = src.FontWeight
	}
	dst.IsBold = dst.IsBold || src.IsBold
	dst.IsItalic = dst.IsItalic || src.IsItalic
	dst.IsCentered = dst.IsCentered || src.IsCentered
	dst.IsUnderlined = dst.IsUnderlined || src.IsUnderlined
	if src.MarginTopPt != 0 {
		dst.MarginTopPt = src.MarginTopPt
	}
	if src.MarginBotPt != 0 {
		dst.MarginBotPt = src.MarginBotPt
	}
	if src.Display != "" {
		dst.Display = src.Display
	}
}

// parseStyle normalizes every recognized CSS unit to points:
// px×0.75, em×12, in×72, cm×28.35, mm×2.835 (§4.3).
func parseStyle(raw string) StyleInfo {
	var info StyleInfo
	for _, decl := range strings.Split(raw, ";") {
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(parts[0]))
		val := strings.ToLower(strings.TrimSpace(parts[1]))
		switch prop {
		case "font-size":
			if pt, ok := toPoints(val); ok {
				info.FontSizePt = pt
				info.HasFontSize = true
			}
		case "font-weight":
			info.FontWeight = val
			if val == "bold" || val == "bolder" {
				info.IsBold = true
			} else if n, err := strconv.Atoi(val); err == nil && n >= 600 {
				info.IsBold = true
			}
		case "font-style":
			info.IsItalic = val == "italic" || val == "oblique"
		case "text-align":
			info.IsCentered = val == "center"
		case "text-decoration":
			info.IsUnderlined = strings.Contains(val, "underline")
		case "margin-top":
			if pt, ok := toPoints(val); ok {
				info.MarginTopPt = pt
			}
		case "margin-bottom":
			if pt, ok := toPoints(val); ok {
				info.MarginBotPt = pt
			}
		case "display":
			info.Display = val
		}
	}
	return info
}

func toPoints(val string) (float64, bool) {
	units := []struct {
		suffix string
		factor float64
	}{
		{"px", 0.75},
		{"em", 12},
		{"in", 72},
		{"cm", 28.35},
		{"mm", 2.835},
		{"pt", 1},
	}
	for _, u := range units {
		if strings.HasSuffix(val, u.suffix) {
			numStr := strings.TrimSuffix(val, u.suffix)
			n, err := strconv.ParseFloat(numStr, 64)
			if err != nil {
				return 0, false
			}
			return n * u.factor, true
		}
	}
	return 0, false
}
