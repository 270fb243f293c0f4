package dsl

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/namecard/card"
)

// Load reads and compiles a `.cards` file.
func Load(path string) (card.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return card.Config{}, err
	}
	defer f.Close()
	doc, err := Parse(path, f)
	if err != nil {
		return card.Config{}, err
	}
	return Compile(doc)
}

// Compile turns a parsed document into a Config. Sections apply in file
// order; each subject or blank entry snapshots the spec at that point.
func Compile(doc *Document) (card.Config, error) {
	cfg := card.NewConfig()
	if doc == nil {
		return cfg, nil
	}
	if doc.Student != nil {
		cfg = cfg.Update(func(s card.Spec) card.Spec { return s.WithText(card.FieldName, string(*doc.Student)) })
	}

	for _, sec := range doc.Sections {
		var err error
		switch {
		case sec.Spec != nil:
			cfg, err = applySpecSection(cfg, sec.Spec.Block)
		case sec.Field != nil:
			var spec card.Spec
			spec, err = applyField(cfg.Spec, sec.Field)
			cfg = cfg.WithSpec(spec)
		case sec.Subject != nil:
			cfg, err = addSubject(cfg, sec.Subject)
		case sec.Blank != nil:
			cfg = cfg.AddBlank(sec.Blank.Count)
		}
		if err != nil {
			return card.Config{}, err
		}
	}
	return cfg, nil
}

func applySpecSection(cfg card.Config, block *Block) (card.Config, error) {
	for _, st := range block.Statements {
		if st.Field != nil {
			spec, err := applyField(cfg.Spec, st.Field)
			if err != nil {
				return card.Config{}, err
			}
			cfg = cfg.WithSpec(spec)
			continue
		}
		a := st.Assignment
		if a.Key == "language" {
			l, err := card.ParseLanguage(a.Value.Text())
			if err != nil {
				return card.Config{}, positioned(a.Pos, err)
			}
			cfg = cfg.WithGlobalLanguage(l)
			continue
		}
		spec, err := applyAssignment(cfg.Spec, a)
		if err != nil {
			return card.Config{}, err
		}
		cfg = cfg.WithSpec(spec)
	}
	return cfg, nil
}

func addSubject(cfg card.Config, entry *SubjectEntry) (card.Config, error) {
	spec := cfg.Spec
	if entry.Block != nil {
		for _, st := range entry.Block.Statements {
			var err error
			if st.Field != nil {
				spec, err = applyField(spec, st.Field)
			} else {
				spec, err = applyAssignment(spec, st.Assignment)
			}
			if err != nil {
				return card.Config{}, err
			}
		}
	}
	item := card.NewBatchItem(string(entry.Name), entry.Count, spec)
	return cfg.ReplaceSubjects(append(slices.Clone(cfg.Subjects), item)), nil
}

// applyAssignment handles spec-level keys: field texts and card options.
func applyAssignment(s card.Spec, a *Assignment) (card.Spec, error) {
	val := a.Value.Text()
	key := strings.ToLower(a.Key)

	if f, err := card.ParseField(key); err == nil && f != card.FieldSubject {
		return s.WithText(f, val), nil
	}

	switch key {
	case "template":
		t, err := card.ParseTemplate(val)
		if err != nil {
			return s, positioned(a.Pos, err)
		}
		s.Template = t
	case "mode", "color-mode":
		m, err := card.ParseColorMode(val)
		if err != nil {
			return s, positioned(a.Pos, err)
		}
		s.ColorMode = m
	case "image", "photo":
		s.ImagePath = val
	case "auto-scale":
		b, err := parseBool(a)
		if err != nil {
			return s, err
		}
		s.AutoScale = b
	case "smart-latin":
		b, err := parseBool(a)
		if err != nil {
			return s, err
		}
		s.SmartLatin = b
	default:
		return s, positioned(a.Pos, fmt.Errorf("unknown key %q", a.Key))
	}
	return s, nil
}

// applyField handles `field <name> { ... }`.
func applyField(s card.Spec, fs *FieldSection) (card.Spec, error) {
	f, err := card.ParseField(fs.Name)
	if err != nil {
		return s, positioned(fs.Pos, err)
	}
	style, styled := s.Style(f), false
	for _, st := range fs.Block.Statements {
		a := st.Assignment
		if a == nil {
			return s, positioned(st.Field.Pos, fmt.Errorf("field sections cannot nest"))
		}
		val := a.Value.Text()
		switch strings.ToLower(a.Key) {
		case "text":
			s = s.WithText(f, val)
		case "language", "lang":
			l, err := card.ParseLanguage(val)
			if err != nil {
				return s, positioned(a.Pos, err)
			}
			s = s.WithLanguage(f, l)
		case "align":
			al, err := card.ParseAlign(val)
			if err != nil {
				return s, positioned(a.Pos, err)
			}
			s = s.WithAlign(f, al)
		case "size":
			if a.Value.Number == nil || *a.Value.Number <= 0 {
				return s, positioned(a.Pos, fmt.Errorf("size must be a positive number of em"))
			}
			s = s.WithSize(f, *a.Value.Number)
		case "bold":
			styled = true
			if style.Bold, err = parseBool(a); err != nil {
				return s, err
			}
		case "italic":
			styled = true
			if style.Italic, err = parseBool(a); err != nil {
				return s, err
			}
		case "color":
			if !strings.HasPrefix(val, "#") {
				return s, positioned(a.Pos, fmt.Errorf("color must be #rrggbb, got %q", val))
			}
			style.Color, styled = val, true
		default:
			return s, positioned(a.Pos, fmt.Errorf("unknown field key %q", a.Key))
		}
	}
	if styled {
		s = s.WithStyle(f, style)
	}
	return s, nil
}

func parseBool(a *Assignment) (bool, error) {
	b, err := strconv.ParseBool(a.Value.Text())
	if err != nil {
		return false, positioned(a.Pos, fmt.Errorf("%s expects true or false", a.Key))
	}
	return b, nil
}

func positioned(pos lexer.Position, err error) error {
	return fmt.Errorf("%s: %w", pos, err)
}
