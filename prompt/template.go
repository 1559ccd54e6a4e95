//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package prompt

// Template is a prompt layout. It is data, not code: the body is plain text
// with recognized slots that the assembler substitutes.
//
// Recognized slots: {goal}, {app_name}, {ui_elements}, {state_text},
// {few_shot_block}, {history_block}, {reasoning_instruction}.
type Template struct {
	// Name identifies the template, e.g. "base" or "few_shot".
	Name string `json:"name"`
	// Body is the slotted prompt text.
	Body string `json:"body"`
	// FewShotBlock fills {few_shot_block}; empty disables it.
	FewShotBlock string `json:"few_shot_block,omitempty"`
	// ReasoningInstruction fills {reasoning_instruction}; empty disables it.
	ReasoningInstruction string `json:"reasoning_instruction,omitempty"`
}

// Built-in template names.
const (
	TemplateBase           = "base"
	TemplateFewShot        = "few_shot"
	TemplateSelfReflection = "self_reflection"
)

const baseBody = `{few_shot_block}Goal: {goal}
Observation:
- App: {app_name}
- UI Elements: {ui_elements}{state_text}{history_block}
What is the next best action to achieve the goal? Respond in the format:
CLICK("element_name") or SCROLL("direction") or TYPE("text")
{reasoning_instruction}Action:`

const fewShotBlock = `Examples:
Goal: Open calculator app
Observation: App: Home, UI Elements: ["Calculator", "Settings", "Chrome"]
Action: CLICK("Calculator")

Goal: Uninstall app
Observation: App: Settings, UI Elements: ["Apps", "Display", "Sound"]
Action: CLICK("Apps")

Goal: Send message "Hello"
Observation: App: Messages, UI Elements: ["Compose", "Search", "Settings"]
Action: CLICK("Compose")

`

const reflectionInstruction = `Before choosing an action, consider:
1. What is the current state of the app?
2. What UI elements are available?
3. Which action will move me closer to the goal?
4. Are there any intermediate steps needed?

Explain your reasoning, then finish with the action on its own line.
`

// Base returns the bare instruction template.
func Base() Template {
	return Template{Name: TemplateBase, Body: baseBody}
}

// FewShot returns the template with worked examples and an instruction to
// explain the choice before the action line.
func FewShot() Template {
	return Template{
		Name:                 TemplateFewShot,
		Body:                 baseBody,
		FewShotBlock:         fewShotBlock,
		ReasoningInstruction: "Explain your reasoning, then finish with the action on its own line.\n",
	}
}

// SelfReflection returns the template that asks the policy to reflect on the
// screen state before acting.
func SelfReflection() Template {
	return Template{
		Name:                 TemplateSelfReflection,
		Body:                 baseBody,
		ReasoningInstruction: reflectionInstruction,
	}
}

// Builtin returns the built-in template with the given name, or false when
// the name is not recognized.
func Builtin(name string) (Template, bool) {
	switch name {
	case TemplateBase:
		return Base(), true
	case TemplateFewShot:
		return FewShot(), true
	case TemplateSelfReflection:
		return SelfReflection(), true
	default:
		return Template{}, false
	}
}
