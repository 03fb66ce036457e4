// Package fixture produces the AI Study Assistant test document: a
// title and a fixed list of body lines laid out top to bottom on Letter
// pages.
package fixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Title is the heading of the default document
const Title = "AI Study Assistant Test Document"

// Lines is the body of the default document. Empty strings are blank
// lines.
var Lines = []string{
	"This is a test document for the AI Study Assistant.",
	"",
	"Key Topics:",
	"1. Artificial Intelligence",
	"2. Machine Learning",
	"3. Natural Language Processing",
	"4. Deep Learning",
	"",
	"Artificial Intelligence (AI) is a branch of computer science that aims to create",
	"intelligent machines that work and react like humans. Some of the activities",
	"computers with artificial intelligence are designed for include speech recognition,",
	"learning, planning, and problem solving.",
	"",
	"Machine Learning is a subset of AI that enables computers to learn and improve",
	"from experience without being explicitly programmed. It focuses on developing",
	"computer programs that can access data and use it to learn for themselves.",
	"",
	"Natural Language Processing (NLP) is a field of AI that gives machines the ability",
	"to read, understand, and derive meaning from human languages.",
	"",
	"Deep Learning is a subset of machine learning that uses neural networks with",
	"multiple layers to model and understand complex patterns in data.",
}

// Content is the text of a fixture document
type Content struct {
	Title string   `yaml:"title"`
	Lines []string `yaml:"lines"`
}

// Default returns the built-in document text
func Default() Content {
	lines := make([]string, len(Lines))
	copy(lines, Lines)
	return Content{Title: Title, Lines: lines}
}

// LoadContent reads a YAML content file. Keys missing from the file
// keep their default values.
func LoadContent(path string) (Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("failed to read content: %w", err)
	}

	var file struct {
		Title *string  `yaml:"title"`
		Lines []string `yaml:"lines"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Content{}, fmt.Errorf("failed to parse content: %w", err)
	}

	c := Default()
	if file.Title != nil {
		c.Title = *file.Title
	}
	if file.Lines != nil {
		c.Lines = file.Lines
	}
	return c, nil
}
