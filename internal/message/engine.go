// Package message renders broadcast content with the Liquid template
// language, so operators can personalize mass messages per recipient
// ({{ first_name }}, {{ first_name | default: "there" }}, ...).
package message

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/osteele/liquid"
)

// Engine parses and renders broadcast templates with caching. Safe for
// concurrent use.
type Engine struct {
	engine *liquid.Engine
	cache  sync.Map // template content hash -> *liquid.Template
}

// NewEngine creates an engine with the chat-oriented filter set registered.
func NewEngine() *Engine {
	e := &Engine{engine: liquid.NewEngine()}
	e.registerFilters()
	return e
}

func (e *Engine) registerFilters() {
	// {{ first_name | default: "there" }}
	e.engine.RegisterFilter("default", func(value interface{}, fallback string) interface{} {
		if value == nil {
			return fallback
		}
		s := fmt.Sprintf("%v", value)
		if s == "" || s == "<nil>" {
			return fallback
		}
		return value
	})

	// {{ first_name | capitalize_name }}
	e.engine.RegisterFilter("capitalize_name", func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	})

	// {{ bio | shorten: 40 }} — chat platforms cap message previews hard.
	e.engine.RegisterFilter("shorten", func(s string, length int) string {
		if len(s) <= length || length <= 3 {
			return s
		}
		return s[:length-3] + "..."
	})
}

// RecipientFields are the per-recipient bindings the dispatcher supplies to
// every template render. Validate rejects references to anything else.
var RecipientFields = []string{"first_name", "last_name", "language", "platform", "chat_user_id"}

var recipientFieldSet = func() map[string]bool {
	set := make(map[string]bool, len(RecipientFields))
	for _, f := range RecipientFields {
		set[f] = true
	}
	return set
}()

// Validate checks that content is well-formed Liquid and that every variable
// it references is one of the recipient bindings. Used by the broadcast
// service before a template is saved or dispatched; a typo like
// {{ nickname }} fails here instead of rendering empty for every recipient.
func (e *Engine) Validate(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("template content is empty")
	}
	if _, err := e.engine.ParseString(content); err != nil {
		return fmt.Errorf("template syntax: %w", err)
	}
	for _, name := range Variables(content) {
		if !recipientFieldSet[name] {
			return fmt.Errorf("unknown variable %q: templates may reference %s",
				name, strings.Join(RecipientFields, ", "))
		}
	}
	return nil
}

// Render renders content with the given per-recipient bindings. Parsed
// templates are cached by content hash, so rendering the same broadcast for
// thousands of recipients parses once.
func (e *Engine) Render(content string, vars map[string]interface{}) (string, error) {
	key := contentKey(content)
	if cached, ok := e.cache.Load(key); ok {
		return cached.(*liquid.Template).RenderString(vars)
	}

	tpl, err := e.engine.ParseString(content)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	e.cache.Store(key, tpl)
	return tpl.RenderString(vars)
}

var varPattern = regexp.MustCompile(`{{\s*([a-zA-Z_][a-zA-Z0-9_.]*)`)

// Variables returns the top-level variable names referenced by content, in
// order of first appearance. Validate uses it to catch references outside
// the recipient bindings.
func Variables(content string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range varPattern.FindAllStringSubmatch(content, -1) {
		name := strings.SplitN(m[1], ".", 2)[0]
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func contentKey(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}
