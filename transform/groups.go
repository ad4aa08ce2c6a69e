package transform

import (
	"sync"

	"medialib/domain/models"
	"medialib/pkg/config"
)

// ThumbName is the reserved transformation name that always maps to the
// file type's thumb transformer.
const ThumbName = "thumb"

// GroupTransformation pairs a transformation name with its resolved spec.
type GroupTransformation struct {
	Name string
	Spec config.TransformerSpec
}

// GroupResolver determines which named transformations must run for a file's
// type and group tag. Resolution is pure given the immutable configuration,
// so results are memoized per (type, group).
type GroupResolver struct {
	cfg *config.Config

	mu    sync.RWMutex
	cache map[string][]GroupTransformation
}

func NewGroupResolver(cfg *config.Config) *GroupResolver {
	return &GroupResolver{
		cfg:   cfg,
		cache: make(map[string][]GroupTransformation),
	}
}

// Resolve returns the ordered transformations for (fileType, group): the
// type's thumb transformer first when configured, then the group's list.
// An undefined group falls back to "default"; group entries that name no
// transformer for the type are dropped without error.
func (r *GroupResolver) Resolve(fileType, group string) []GroupTransformation {
	if group == "" {
		group = models.DefaultGroup
	}
	key := fileType + "\x00" + group

	r.mu.RLock()
	cached, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	resolved := r.resolve(fileType, group)

	r.mu.Lock()
	r.cache[key] = resolved
	r.mu.Unlock()

	return resolved
}

func (r *GroupResolver) resolve(fileType, group string) []GroupTransformation {
	ft := r.cfg.FileType(fileType)
	if ft == nil {
		return nil
	}

	var out []GroupTransformation

	if ft.Thumb != nil && ft.Thumb.Transformer != "" {
		out = append(out, GroupTransformation{Name: ThumbName, Spec: *ft.Thumb})
	}

	names, ok := ft.TransformationGroups[group]
	if !ok {
		names = ft.TransformationGroups[models.DefaultGroup]
	}

	for _, name := range names {
		spec, ok := ft.Transformations[name]
		if !ok || spec.Transformer == "" {
			continue
		}
		out = append(out, GroupTransformation{Name: name, Spec: spec})
	}

	return out
}
