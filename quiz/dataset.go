package quiz

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/weekwise/weekwise/types"
)

// LoadDataset parses a question dataset: a JSON array of question
// records. An empty or malformed dataset is an error; the session treats
// it as terminal rather than presenting an empty quiz.
func LoadDataset(data []byte) ([]types.Question, error) {
	var questions []types.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse question dataset: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("question dataset is empty")
	}
	return questions, nil
}

// LoadDatasetFile reads and parses a question dataset from disk.
func LoadDatasetFile(path string) ([]types.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question dataset: %w", err)
	}
	return LoadDataset(data)
}
