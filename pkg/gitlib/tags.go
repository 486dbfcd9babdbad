package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// Tag is a named snapshot pointer.
type Tag struct {
	Name    string
	Message string
	Target  string
}

// CreateTag creates an annotated tag named name pointing at HEAD.
func (r *Repository) CreateTag(name, message string) error {
	head, err := r.Head()
	if err != nil {
		return err
	}
	defer head.Free()

	_, err = r.repo.Tags.Create(name, head.Native(), r.signature(), message)
	if err != nil {
		return fmt.Errorf("create tag %s: %w", name, err)
	}

	return nil
}

// TagExists reports whether a tag with the given name exists.
func (r *Repository) TagExists(name string) bool {
	ref, err := r.repo.References.Lookup("refs/tags/" + name)
	if err != nil {
		return false
	}

	ref.Free()

	return true
}

// LookupTagCommit resolves a tag name to the commit it points at.
func (r *Repository) LookupTagCommit(name string) (*Commit, error) {
	ref, err := r.repo.References.Lookup("refs/tags/" + name)
	if err != nil {
		return nil, fmt.Errorf("lookup tag %s: %w", name, err)
	}
	defer ref.Free()

	obj, err := ref.Peel(git2go.ObjectCommit)
	if err != nil {
		return nil, fmt.Errorf("peel tag %s: %w", name, err)
	}

	commit, err := obj.AsCommit()
	if err != nil {
		obj.Free()

		return nil, fmt.Errorf("tag %s does not point at a commit: %w", name, err)
	}

	return &Commit{commit: commit, repo: r}, nil
}

// ListTags returns all tags with their messages and target hashes.
func (r *Repository) ListTags() ([]Tag, error) {
	names, err := r.repo.Tags.List()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	tags := make([]Tag, 0, len(names))

	for _, name := range names {
		tag := Tag{Name: name}

		ref, refErr := r.repo.References.Lookup("refs/tags/" + name)
		if refErr != nil {
			continue
		}

		obj, objErr := r.repo.Lookup(ref.Target())
		if objErr == nil {
			annotated, tagErr := obj.AsTag()
			if tagErr == nil {
				tag.Message = annotated.Message()
				tag.Target = annotated.TargetId().String()
			} else {
				// Lightweight tag: the ref points straight at the commit.
				tag.Target = ref.Target().String()
			}

			obj.Free()
		}

		ref.Free()
		tags = append(tags, tag)
	}

	return tags, nil
}
