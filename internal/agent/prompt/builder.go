package prompt

import (
	"fmt"
)

// Builder constructs prompts for the agent
type Builder struct{}

// NewBuilder creates a new prompt builder
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildDescription returns the persona description
func (b *Builder) BuildDescription() string {
	return Persona
}

// BuildInstruction returns the instruction block with the output contract
func (b *Builder) BuildInstruction() string {
	return fmt.Sprintf(Instructions, MinRecommendations)
}
