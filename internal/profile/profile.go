// Package profile loads optional HCL session profiles. A profile pins the
// serial settings for a bench setup and pre-populates script variables, so
// command scripts stay portable between setups:
//
//	session {
//	  port         = "/dev/ttyACM0"
//	  baud         = 115200
//	  settle_ms    = 150
//	  debug_prefix = "[DBG]"
//	}
//
//	vars {
//	  ADDR = "4"
//	}
//
// CLI flags override profile values; profile values override built-in
// defaults.
package profile

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/bridgerun/internal/ctxlog"
	"github.com/vk/bridgerun/internal/fsutil"
	"github.com/vk/bridgerun/internal/script"
)

// Profile is the merged result of one or more profile files. Zero-valued
// fields were not set by any file.
type Profile struct {
	Port        string
	Baud        int
	Settle      time.Duration
	DebugPrefix string
	Vars        *script.Vars
}

// New returns an empty profile.
func New() *Profile {
	return &Profile{Vars: script.NewVars()}
}

// fileSchema is the top-level structure of a profile file for decoding.
type fileSchema struct {
	Session *sessionBlock `hcl:"session,block"`
	Vars    *varsBlock    `hcl:"vars,block"`
}

type sessionBlock struct {
	Port        *string `hcl:"port,optional"`
	Baud        *int    `hcl:"baud,optional"`
	SettleMS    *int    `hcl:"settle_ms,optional"`
	DebugPrefix *string `hcl:"debug_prefix,optional"`
}

// varsBlock keeps its body undecoded: variable names are user-chosen, so
// the attributes are read generically rather than through struct tags.
type varsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Load reads the profile at path, which may be a single .hcl file or a
// directory. For a directory, every .hcl file under it is merged in sorted
// path order, later files overriding earlier ones.
func Load(ctx context.Context, path string) (*Profile, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile path %s: %w", path, err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to find profile files in %s: %w", path, err)
		}
		if len(files) == 0 {
			logger.Warn("No .hcl profile files found in directory, using defaults.", "path", path)
		}
	}

	p := New()
	parser := hclparse.NewParser()
	for _, file := range files {
		if err := p.mergeFile(file, parser); err != nil {
			return nil, err
		}
		logger.Debug("Profile file merged.", "path", file)
	}
	return p, nil
}

// mergeFile parses one profile file and folds its settings into p.
func (p *Profile) mergeFile(filePath string, parser *hclparse.Parser) error {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse profile file %s: %s", filePath, diags.Error())
	}

	var parsed fileSchema
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode profile file %s: %s", filePath, diags.Error())
	}

	if s := parsed.Session; s != nil {
		if s.Port != nil {
			p.Port = *s.Port
		}
		if s.Baud != nil {
			p.Baud = *s.Baud
		}
		if s.SettleMS != nil {
			if *s.SettleMS < 0 {
				return fmt.Errorf("profile file %s: settle_ms must not be negative", filePath)
			}
			p.Settle = time.Duration(*s.SettleMS) * time.Millisecond
		}
		if s.DebugPrefix != nil {
			p.DebugPrefix = *s.DebugPrefix
		}
	}

	if parsed.Vars != nil {
		if err := p.mergeVars(filePath, parsed.Vars.Body); err != nil {
			return err
		}
	}
	return nil
}

// mergeVars folds a vars block into the store in source order, so profile
// variables get the same insertion-order substitution semantics as script
// assignments.
func (p *Profile) mergeVars(filePath string, body hcl.Body) error {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("failed to read vars block in %s: %s", filePath, diags.Error())
	}

	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	for _, attr := range ordered {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("failed to evaluate variable %q in %s: %s", attr.Name, filePath, diags.Error())
		}
		strVal, err := convert.Convert(val, cty.String)
		if err != nil {
			return fmt.Errorf("variable %q in %s cannot be used as a string: %w", attr.Name, filePath, err)
		}
		if strVal.IsNull() {
			return fmt.Errorf("variable %q in %s is null", attr.Name, filePath)
		}
		p.Vars.Set(attr.Name, strVal.AsString())
	}
	return nil
}
