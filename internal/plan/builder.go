package plan

import (
	"path"
	"strings"

	"go.uber.org/zap"

	"shireesh.com/bootgen/internal/config"
	"shireesh.com/bootgen/internal/errdef"
	"shireesh.com/bootgen/internal/templates"
)

// MissingTemplatesError lists the required template keys absent from the store.
type MissingTemplatesError struct {
	Keys []string
}

func (e *MissingTemplatesError) Error() string {
	return "missing required templates: " + strings.Join(e.Keys, ", ")
}

type Builder struct {
	store templates.Store
	rules []Rule
	log   *zap.Logger
}

type Option func(*Builder)

// WithRules replaces the default rule table.
func WithRules(rules []Rule) Option {
	return func(b *Builder) { b.rules = rules }
}

func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

func NewBuilder(store templates.Store, opts ...Option) *Builder {
	b := &Builder{store: store, rules: DefaultRules(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the plan for cfg. It fails with a missing required template
// error instead of returning a partial plan.
func (b *Builder) Build(cfg config.Config) (Plan, error) {
	chosen, err := b.selectRules(cfg)
	if err != nil {
		return Plan{}, err
	}

	var tasks []Task
	made := map[string]bool{}
	mkdir := func(dir string) {
		if dir == "." || made[dir] {
			return
		}
		made[dir] = true
		tasks = append(tasks, Task{Kind: KindMkdir, Dest: dir})
	}

	for _, m := range modules {
		mkdir(m.Dir(cfg.BaseName()))
	}
	for _, r := range chosen {
		dest := r.Destination(cfg)
		mkdir(path.Dir(dest))
		tasks = append(tasks, Task{
			Kind:        KindRender,
			TemplateKey: r.TemplateKey(),
			Dest:        dest,
			Mode:        r.Mode,
			Syntax:      r.Syntax,
			Check:       r.Check,
		})
	}

	b.log.Debug("plan built",
		zap.String("baseName", cfg.BaseName()),
		zap.Int("tasks", len(tasks)),
		zap.Int("renders", len(chosen)),
	)
	return Plan{Tasks: tasks}, nil
}

// selectRules picks one rule per destination. Among matching rules the one
// keyed on more fields wins; equal specificity keeps the earlier rule.
// Optional rules whose template is absent are not candidates.
func (b *Builder) selectRules(cfg config.Config) ([]Rule, error) {
	var order []string
	picked := map[string]Rule{}

	for _, r := range b.rules {
		if !r.Matches(cfg) {
			continue
		}
		if !r.Required() && !b.store.Exists(r.TemplateKey()) {
			b.log.Debug("optional template absent, skipping", zap.String("key", r.TemplateKey()))
			continue
		}
		dest := r.Destination(cfg)
		cur, ok := picked[dest]
		if !ok {
			order = append(order, dest)
			picked[dest] = r
			continue
		}
		if r.Specificity() > cur.Specificity() {
			picked[dest] = r
		}
	}

	var missing []string
	chosen := make([]Rule, 0, len(order))
	for _, dest := range order {
		r := picked[dest]
		if r.Required() && !b.store.Exists(r.TemplateKey()) {
			missing = append(missing, r.TemplateKey())
			continue
		}
		chosen = append(chosen, r)
	}
	if len(missing) > 0 {
		return nil, errdef.Wrap(errdef.CodeMissingRequiredTemplate, &MissingTemplatesError{Keys: missing}, "")
	}
	return chosen, nil
}
