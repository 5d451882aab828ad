// Package project drives parsing, resolution and validation across the
// compilation units of a multi-file project.
package project

import (
	"fmt"
	"sync"

	"github.com/dhamidi/aidlyzer/aidl"
	"github.com/dhamidi/aidlyzer/aidl/parser"
)

// Unit is one compilation unit plus its latest analysis results. AST is
// nil when the unit's top-level structure failed to parse.
type Unit struct {
	Content     string
	AST         *aidl.Aidl
	Diagnostics []aidl.Diagnostic
}

// Project holds the units of one project, addressed by caller-supplied
// keys (paths, indices, URIs). Units can be added, replaced and removed
// incrementally; Validate recomputes the whole project from raw text.
type Project[K comparable] struct {
	mu    sync.RWMutex
	units map[K]*Unit
}

func New[K comparable]() *Project[K] {
	return &Project[K]{
		units: make(map[K]*Unit),
	}
}

// AddContent adds or replaces the unit stored under key and parses it, so
// that syntax diagnostics and symbols are available before the next
// project-wide Validate.
func (p *Project[K]) AddContent(key K, content string) {
	ast, diagnostics := parser.Parse(content)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.units[key] = &Unit{
		Content:     content,
		AST:         ast,
		Diagnostics: diagnostics,
	}
}

func (p *Project[K]) RemoveContent(key K) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.units, key)
}

// Unit returns the stored unit for key, or nil.
func (p *Project[K]) Unit(key K) *Unit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.units[key]
}

func (p *Project[K]) Keys() []K {
	p.mu.RLock()
	defer p.mu.RUnlock()
	keys := make([]K, 0, len(p.units))
	for key := range p.units {
		keys = append(keys, key)
	}
	return keys
}

// Validate re-runs the full pipeline over every unit and returns the
// diagnostics per key. Two ordered phases: every unit is re-parsed from
// its raw content, then the project-wide item table is built, and only
// then are units resolved and validated against it. Both phases run the
// per-unit work concurrently; no unit resolves before the table is
// complete.
func (p *Project[K]) Validate() map[K][]aidl.Diagnostic {
	p.mu.Lock()
	defer p.mu.Unlock()

	results := make(map[K]*Unit, len(p.units))
	var wg sync.WaitGroup
	for key, unit := range p.units {
		fresh := &Unit{Content: unit.Content}
		results[key] = fresh
		wg.Add(1)
		go func(content string, out *Unit) {
			defer wg.Done()
			out.AST, out.Diagnostics = parser.Parse(content)
		}(unit.Content, fresh)
	}
	wg.Wait()

	table := make(map[string]aidl.ItemKind, len(results))
	keyCount := make(map[string]int, len(results))
	for _, unit := range results {
		if unit.AST != nil {
			itemKey := unit.AST.Key()
			table[itemKey] = unit.AST.Item.ItemKind()
			keyCount[itemKey]++
		}
	}

	for _, unit := range results {
		if unit.AST == nil {
			continue
		}
		wg.Add(1)
		go func(unit *Unit) {
			defer wg.Done()
			if itemKey := unit.AST.Key(); keyCount[itemKey] > 1 {
				unit.Diagnostics = append(unit.Diagnostics, aidl.Diagnostic{
					Kind:           aidl.DiagnosticError,
					Range:          unit.AST.Item.ItemSymbolRange(),
					Message:        fmt.Sprintf("Duplicated item `%s`", itemKey),
					ContextMessage: "duplicated item",
				})
			}
			resolved, resolveDiags := aidl.Resolve(unit.AST, table)
			unit.Diagnostics = append(unit.Diagnostics, resolveDiags...)
			unit.Diagnostics = append(unit.Diagnostics, aidl.Validate(unit.AST, table, resolved)...)
			aidl.SortDiagnostics(unit.Diagnostics)
		}(unit)
	}
	wg.Wait()

	diagnostics := make(map[K][]aidl.Diagnostic, len(results))
	for key, unit := range results {
		p.units[key] = unit
		diagnostics[key] = unit.Diagnostics
	}
	return diagnostics
}

// FindItem returns the unit defining the given qualified item key, or the
// zero key and nil.
func (p *Project[K]) FindItem(itemKey string) (K, *Unit) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for key, unit := range p.units {
		if unit.AST != nil && unit.AST.Key() == itemKey {
			return key, unit
		}
	}
	var zero K
	return zero, nil
}
