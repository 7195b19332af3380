// Package prompt turns a task and its inputs into the message sequence sent
// to the model.
package prompt

import (
	"fmt"
	"strings"
	"sync"
)

// TaskKind selects the system prompt and the instruction phrasing.
type TaskKind string

const (
	TaskChat     TaskKind = "chat"
	TaskExplain  TaskKind = "explain"
	TaskGenerate TaskKind = "generate"
	TaskRefactor TaskKind = "refactor"
	TaskFix      TaskKind = "fix"
	TaskDocs     TaskKind = "docs"
)

// TaskKinds returns every known task in display order.
func TaskKinds() []TaskKind {
	return []TaskKind{TaskChat, TaskExplain, TaskGenerate, TaskRefactor, TaskFix, TaskDocs}
}

// ParseTaskKind maps a name to a TaskKind.
func ParseTaskKind(name string) (TaskKind, error) {
	k := TaskKind(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range TaskKinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown task %q", name)
}

// Registry holds system prompts for each task type.
type Registry struct {
	mu      sync.RWMutex
	prompts map[TaskKind]string
}

// DefaultRegistry returns the built-in system prompts.
func DefaultRegistry() *Registry {
	return &Registry{
		prompts: map[TaskKind]string{
			TaskChat:     genericPrompt,
			TaskExplain:  explainPrompt,
			TaskGenerate: generatePrompt,
			TaskRefactor: refactorPrompt,
			TaskFix:      fixPrompt,
			TaskDocs:     docsPrompt,
		},
	}
}

// Get returns the prompt for a task. Unknown tasks get the generic
// coding-assistant prompt.
func (r *Registry) Get(task TaskKind) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.prompts[task]; ok && p != "" {
		return p
	}
	return genericPrompt
}

// Set sets a custom prompt for a task type. The zero Registry is usable.
func (r *Registry) Set(task TaskKind, prompt string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.prompts == nil {
		r.prompts = make(map[TaskKind]string)
	}
	r.prompts[task] = prompt
}

// Override applies name → prompt pairs, as read from a config file.
func (r *Registry) Override(prompts map[string]string) error {
	for name, p := range prompts {
		task, err := ParseTaskKind(name)
		if err != nil {
			return err
		}
		if strings.TrimSpace(p) == "" {
			continue
		}
		r.Set(task, p)
	}
	return nil
}

const persona = "You are KiloCode, an AI coding assistant."

var genericPrompt = persona + " Help users with their coding questions, explain code, generate code, refactor, fix bugs, and generate documentation. Be concise and helpful."

var explainPrompt = persona + " Explain the provided code in detail, including its purpose, how it works, and any potential issues. Be clear and educational."

var generatePrompt = persona + " Generate code based on the user's description. Provide clean, well-commented, and efficient code. Include necessary imports and structure."

var refactorPrompt = persona + " Suggest refactoring improvements for the provided code to make it more readable, maintainable, and efficient. Explain your changes."

var fixPrompt = persona + " Analyze the provided code for bugs and issues, then provide fixes. Explain what was wrong and how your fix addresses it."

var docsPrompt = persona + " Generate comprehensive documentation for the provided code, including function descriptions, parameter explanations, return values, and usage examples. Use standard documentation format."
