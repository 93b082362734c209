package contentsvc

import (
	"context"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/scitech-butterfly/aasira/core/course"
	"github.com/scitech-butterfly/aasira/core/glossary"
)

type contentFile struct {
	Modules  []course.Module `yaml:"modules"`
	Glossary []glossary.Term `yaml:"glossary"`
}

// FileProvider serves course modules and glossary terms from a YAML file
// parsed once at startup. The file order is the course order: each module's
// sequence index is its position in the file.
type FileProvider struct {
	modules []course.Module
	terms   []glossary.Term
}

var (
	_ course.ContentProvider = (*FileProvider)(nil)
	_ glossary.Provider      = (*FileProvider)(nil)
)

func NewFileProvider(path string) (*FileProvider, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return newFileProvider(data)
}

func newFileProvider(data []byte) (*FileProvider, error) {
	var file contentFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "parsing course content")
	}

	seen := make(map[int]bool, len(file.Modules))
	for i := range file.Modules {
		m := &file.Modules[i]
		if seen[m.ID] {
			return nil, errors.Errorf("duplicate module id %d", m.ID)
		}
		seen[m.ID] = true
		m.SequenceIndex = i
	}
	return &FileProvider{modules: file.Modules, terms: file.Glossary}, nil
}

func (p *FileProvider) Modules(_ context.Context) ([]course.Module, error) {
	modules := make([]course.Module, len(p.modules))
	copy(modules, p.modules)
	return modules, nil
}

func (p *FileProvider) Terms(_ context.Context) ([]glossary.Term, error) {
	terms := make([]glossary.Term, len(p.terms))
	copy(terms, p.terms)
	return terms, nil
}
