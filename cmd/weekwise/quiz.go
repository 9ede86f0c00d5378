package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/weekwise/weekwise/quiz"
	"github.com/weekwise/weekwise/types"
)

func quizDataset(path string) ([]types.Question, error) {
	return quiz.LoadDatasetFile(path)
}

// playQuiz runs the interactive session loop until a terminal state.
func playQuiz(cmd *cobra.Command, questions []types.Question, cli *CLI) error {
	ctx := cmd.Context()
	session := quiz.NewSession(questions, quiz.WithLogger(cli.logger))
	if err := session.Start(ctx); err != nil {
		return fmt.Errorf("quiz unavailable: %s", session.FailureReason())
	}

	for !quiz.IsTerminal(session.State()) {
		switch session.State() {
		case quiz.StatePresenting:
			if err := playQuestion(session); err != nil {
				return err
			}
		case quiz.StateAnswered:
			time.Sleep(quiz.DisplayDelay)
			if err := session.Advance(ctx); err != nil {
				return err
			}
		case quiz.StateLevelComplete:
			if err := chooseLevelOption(ctx, session); err != nil {
				return err
			}
		}
	}

	if session.State() == quiz.StateFailed {
		return fmt.Errorf("quiz failed: %s", session.FailureReason())
	}
	fmt.Println("Thanks for playing!")
	return nil
}

func playQuestion(session *quiz.Session) error {
	question, choices, err := session.Current()
	if err != nil {
		return err
	}

	fmt.Printf("\nLevel %d - what is pictured in %s?\n", session.Level(), question.Image)
	for i, choice := range choices {
		fmt.Printf("  %d) %s\n", i+1, choice)
	}

	line, err := readLine("Your answer: ")
	if err != nil {
		return err
	}
	n, convErr := strconv.Atoi(line)
	if convErr != nil || n < 1 || n > len(choices) {
		fmt.Println("Pick a number from the list.")
		return nil
	}

	result, err := session.Answer(choices[n-1])
	if err != nil {
		return err
	}
	if result.Correct {
		fmt.Println("Correct!")
	} else {
		fmt.Printf("Not quite - the answer is %q. Try again.\n", result.CorrectLabel)
	}
	return nil
}

func chooseLevelOption(ctx context.Context, session *quiz.Session) error {
	options := session.LevelOptions()
	fmt.Printf("\nLevel %d complete! Options: ", session.Level())
	for i, opt := range options {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Print(opt)
	}
	fmt.Println()

	line, err := readLine("Choose: ")
	if err != nil {
		return err
	}
	if err := session.Choose(ctx, line); err != nil {
		fmt.Printf("%v\n", err)
	}
	return nil
}
