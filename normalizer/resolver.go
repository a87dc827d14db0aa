package normalizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasdecode/oaserrors"
	"github.com/erraggy/oasdecode/schema"
)

const (
	// MaxRefDepth is the maximum nesting depth followed while bundling.
	MaxRefDepth = 100

	// MaxCachedDocuments is the maximum number of distinct files one bundle may read.
	MaxCachedDocuments = 100

	// MaxFileSize is the maximum size (in bytes) of any schema file, including the entry file.
	MaxFileSize = 10 * 1024 * 1024 // 10MB
)

// BundledDefinition is an external schema promoted to a top-level definition.
type BundledDefinition struct {
	Name   string
	Node   *yaml.Node
	Source string
}

// RefResolver bundles external file references into one document.
//
// Every relative reference is resolved against the directory of the file
// that contains it, never against the process working directory. Files
// outside BaseDir are rejected. A resolver is not safe for concurrent use;
// create one per normalization.
type RefResolver struct {
	// BaseDir bounds every file the resolver may read.
	BaseDir string

	logger     Logger
	mainFile   string
	documents  map[string]*yaml.Node
	registered map[string]string
	taken      map[string]bool
	resolving  map[string]bool
	bundled    []BundledDefinition
	external   int
}

// NewRefResolver creates a resolver confined to baseDir.
func NewRefResolver(baseDir string, logger Logger) *RefResolver {
	if logger == nil {
		logger = NopLogger{}
	}
	return &RefResolver{
		BaseDir:    baseDir,
		logger:     logger,
		documents:  make(map[string]*yaml.Node),
		registered: make(map[string]string),
		taken:      make(map[string]bool),
		resolving:  make(map[string]bool),
	}
}

// Load reads and parses a schema file, caching it by absolute path.
func (r *RefResolver) Load(path string) (*yaml.Node, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: path, Message: "cannot resolve path", Cause: err}
	}
	if doc, ok := r.documents[abs]; ok {
		return doc, nil
	}
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return r.Add(path, data)
}

// Add parses data as the content of path and caches the result, so later
// references to path do not read the file again.
func (r *RefResolver) Add(path string, data []byte) (*yaml.Node, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: path, Message: "cannot resolve path", Cause: err}
	}
	if len(r.documents) >= MaxCachedDocuments {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "cached_documents",
			Limit:        MaxCachedDocuments,
			Actual:       int64(len(r.documents)),
			Message:      "too many external references",
		}
	}
	doc, err := parseYAML(path, data)
	if err != nil {
		return nil, err
	}
	r.documents[abs] = doc
	r.logger.Debug("loaded schema file", "path", r.display(abs), "bytes", len(data))
	return doc, nil
}

// ReadFile reads a schema file, enforcing MaxFileSize.
func ReadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: path, Message: "cannot read file", Cause: err}
	}
	if info.Size() > MaxFileSize {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        MaxFileSize,
			Actual:       info.Size(),
			Message:      fmt.Sprintf("file %s is too large", filepath.Base(path)),
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: path, Message: "cannot read file", Cause: err}
	}
	return data, nil
}

// Bundle rewrites every external $ref beneath the schemas of container,
// which was read from sourceFile. A reference to a named schema in another
// file becomes a new definition when the name is still free; anything else
// is inlined. Internal references of sourceFile are left untouched.
func (r *RefResolver) Bundle(container *yaml.Node, sourceFile string) error {
	abs, err := filepath.Abs(sourceFile)
	if err != nil {
		return &oaserrors.ParseError{Path: sourceFile, Message: "cannot resolve path", Cause: err}
	}
	r.mainFile = abs
	container = documentContent(container)
	if container == nil || container.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(container.Content); i += 2 {
		r.taken[container.Content[i].Value] = true
	}
	for i := 1; i < len(container.Content); i += 2 {
		if err := r.bundleNode(container.Content[i], abs, 0); err != nil {
			return err
		}
	}
	return nil
}

// Definitions returns the promoted definitions in first-reference order.
func (r *RefResolver) Definitions() []BundledDefinition {
	return r.bundled
}

// ExternalRefs returns the number of external references rewritten.
func (r *RefResolver) ExternalRefs() int {
	return r.external
}

func (r *RefResolver) bundleNode(n *yaml.Node, file string, depth int) error {
	if depth > MaxRefDepth {
		return &oaserrors.ResourceLimitError{
			ResourceType: "ref_depth",
			Limit:        MaxRefDepth,
			Actual:       int64(depth),
			Message:      "structure too deeply nested",
		}
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range n.Content {
			if err := r.bundleNode(child, file, depth+1); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		if ref, ok := refValue(n); ok {
			replaced, err := r.bundleRef(n, ref, file, depth)
			if err != nil || replaced {
				return err
			}
		}
		for i := 1; i < len(n.Content); i += 2 {
			if err := r.bundleNode(n.Content[i], file, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// bundleRef handles one $ref found in file. It reports whether n was fully
// processed, so the caller must not descend into it.
func (r *RefResolver) bundleRef(n *yaml.Node, ref, file string, depth int) (bool, error) {
	target, fragment, _ := strings.Cut(ref, "#")
	switch {
	case target == "" && file == r.mainFile:
		return false, nil
	case target == "":
		target = file
	case strings.Contains(target, "://"):
		return true, &oaserrors.ReferenceError{
			Ref:     ref,
			RefType: "http",
			From:    r.display(file),
			Message: "remote references are not supported",
		}
	default:
		resolved, err := r.resolvePath(ref, target, filepath.Dir(file))
		if err != nil {
			return true, err
		}
		target = resolved
	}

	if target == r.mainFile {
		setRef(n, "#"+fragment)
		return true, nil
	}
	r.external++
	key := target + "#" + fragment
	if name, ok := r.registered[key]; ok {
		setRef(n, schema.Ref(name))
		return true, nil
	}

	doc, err := r.Load(target)
	if err != nil {
		return true, err
	}
	found, ok := lookupYAML(doc, fragment)
	if !ok {
		return true, &oaserrors.ReferenceError{
			Ref:        ref,
			RefType:    "file",
			From:       r.display(file),
			IsDangling: true,
			Message:    "fragment not found in " + r.display(target),
		}
	}

	if name, ok := componentName(fragment); ok && !r.taken[name] {
		body := copyYAML(found)
		r.registered[key] = name
		r.taken[name] = true
		r.bundled = append(r.bundled, BundledDefinition{Name: name, Node: body, Source: target})
		r.logger.Debug("promoted external schema", "name", name, "source", r.display(target))
		setRef(n, schema.Ref(name))
		return true, r.bundleNode(body, target, depth+1)
	}

	if r.resolving[key] {
		return true, &oaserrors.ReferenceError{
			Ref:        ref,
			RefType:    "file",
			From:       r.display(file),
			IsCircular: true,
		}
	}
	body := copyYAML(found)
	r.resolving[key] = true
	err = r.bundleNode(body, target, depth+1)
	delete(r.resolving, key)
	if err != nil {
		return true, err
	}
	r.logger.Debug("inlined external reference", "ref", ref, "source", r.display(target))
	*n = *body
	return true, nil
}

// resolvePath resolves target against dir and confines it to BaseDir.
func (r *RefResolver) resolvePath(ref, target, dir string) (string, error) {
	path := filepath.FromSlash(target)
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	absBase, err := filepath.Abs(r.BaseDir)
	if err != nil {
		return "", fmt.Errorf("normalizer: resolve base directory: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("normalizer: resolve %s: %w", target, err)
	}
	// filepath.Rel fails for paths on different volumes, which is also traversal.
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &oaserrors.ReferenceError{
			Ref:             ref,
			RefType:         "file",
			IsPathTraversal: true,
		}
	}
	return absPath, nil
}

func (r *RefResolver) display(path string) string {
	base, err := filepath.Abs(r.BaseDir)
	if err != nil {
		return filepath.Base(path)
	}
	if rel, err := filepath.Rel(base, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.Base(path)
}

// componentName returns the schema name when fragment addresses a whole
// entry of an OpenAPI schema container.
func componentName(fragment string) (string, bool) {
	for _, prefix := range []string{"/components/schemas/", "/definitions/"} {
		rest, ok := strings.CutPrefix(fragment, prefix)
		if ok && rest != "" && !strings.Contains(rest, "/") {
			return schema.UnescapePointer(rest), true
		}
	}
	return "", false
}
