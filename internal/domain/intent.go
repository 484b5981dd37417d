package domain

// QueryIntent is the routing label derived from a user message.
type QueryIntent string

// Intents, in the order the classifier tests them.
const (
	IntentFileModification QueryIntent = "file_modification"
	IntentTestGeneration   QueryIntent = "test_generation"
	IntentCodeGeneration   QueryIntent = "code_generation"
	IntentCodeSearch       QueryIntent = "code_search"
	IntentCodeExplanation  QueryIntent = "code_explanation"
	IntentCodeOptimization QueryIntent = "code_optimization"
	IntentGeneral          QueryIntent = "general"
)

// AllIntents lists every intent the classifier can return.
var AllIntents = []QueryIntent{
	IntentFileModification,
	IntentTestGeneration,
	IntentCodeGeneration,
	IntentCodeSearch,
	IntentCodeExplanation,
	IntentCodeOptimization,
	IntentGeneral,
}

func (i QueryIntent) String() string { return string(i) }
