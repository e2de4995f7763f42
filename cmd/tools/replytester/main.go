package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/saturn-companion/backend/internal/analysis/responder"
	"github.com/zhouzirui/saturn-companion/backend/internal/model/chat"
)

type replyOptions struct {
	emotion     string
	prevUser    string
	prevAI      string
	prevEmotion string
	seed        uint64
	seeded      bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "replytester",
		Short:        "replytester - try the companion's reply rules from the terminal",
		SilenceUsage: true,
	}
	root.AddCommand(newReplyCmd(), newCategoriesCmd())
	return root
}

func newReplyCmd() *cobra.Command {
	opts := &replyOptions{}
	cmd := &cobra.Command{
		Use:   "reply [message]",
		Short: "Classify one message and print the selected reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.seeded = cmd.Flags().Changed("seed")
			return runReply(cmd.OutOrStdout(), strings.Join(args, " "), opts)
		},
	}
	cmd.Flags().StringVar(&opts.emotion, "emotion", "neutral", "detected emotion label for the message")
	cmd.Flags().StringVar(&opts.prevUser, "prev-user", "", "previous user message")
	cmd.Flags().StringVar(&opts.prevAI, "prev-ai", "", "previous companion reply")
	cmd.Flags().StringVar(&opts.prevEmotion, "prev-emotion", "", "emotion label of the previous exchange")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "fixed seed for template draws")
	return cmd
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List every template pool in priority order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCategories(cmd.OutOrStdout())
		},
	}
}

func runReply(out io.Writer, message string, opts *replyOptions) error {
	var picker responder.Picker
	if opts.seeded {
		picker = responder.NewSeededPicker(opts.seed)
	}
	r := responder.New(responder.DefaultCatalog(), picker)

	var history []chat.Exchange
	if opts.prevUser != "" || opts.prevAI != "" {
		history = append(history, chat.Exchange{
			UserInput:  opts.prevUser,
			AIResponse: opts.prevAI,
			Emotion:    opts.prevEmotion,
		})
	}

	reply := r.Select(message, opts.emotion, history)
	fmt.Fprintf(out, "category: %s\n", reply.Category)
	fmt.Fprintf(out, "pool:     %s\n", reply.Pool)
	fmt.Fprintf(out, "reply:    %s\n", reply.Text)
	return nil
}

func runCategories(out io.Writer) error {
	catalog := responder.DefaultCatalog()
	for _, pool := range responder.RequiredPools() {
		fmt.Fprintf(out, "%-40s %d templates\n", pool, len(catalog.Templates(pool)))
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
