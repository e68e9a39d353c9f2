package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/liliang-cn/citelens/internal/config"
	"github.com/liliang-cn/citelens/internal/domain"
	"github.com/liliang-cn/citelens/internal/provider"
	"github.com/liliang-cn/citelens/internal/repository"
	"github.com/liliang-cn/citelens/internal/service"
	"github.com/spf13/cobra"
)

func askCMD(cfgPath *string) *cobra.Command {
	var outDir string
	var asJSON bool
	var ask = &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question and annotate the cited page",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*cfgPath, true, config.AllComponents...)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			db, err := repository.NewDB(":memory:")
			if err != nil {
				return err
			}
			defer db.Close()

			screenshots, err := provider.NewScreenshotter(a.cfg.Screenshot, a.logger)
			if err != nil {
				return err
			}
			chat := service.NewChatService(
				a.cfg,
				repository.NewSessionRepository(db),
				provider.NewAnswerFromConfig(a.cfg.Answer),
				screenshots,
				a.locateService(),
				a.metrics,
				a.logger,
			)

			resp, err := chat.Chat(cmd.Context(), &domain.ChatRequest{Message: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			if resp.Error != "" {
				return fmt.Errorf("%s: %s", resp.Message.Content, resp.Error)
			}

			if outDir != "" {
				if err := writeCitations(outDir, resp.Message); err != nil {
					return err
				}
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), resp.Message)
			}
			printAnswer(cmd, resp.Message)
			return nil
		},
	}
	ask.Flags().StringVar(&outDir, "out-dir", "", "write annotated citation screenshots to this directory")
	ask.Flags().BoolVar(&asJSON, "json", false, "print the message as JSON")

	return ask
}

func printAnswer(cmd *cobra.Command, msg *domain.Message) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, msg.Content)
	if len(msg.Citations) == 0 {
		return
	}
	fmt.Fprintln(out)
	for i, url := range msg.Citations {
		fmt.Fprintf(out, "[%d] %s\n", i+1, url)
		if cc := msg.CitationContents[i+1]; cc != nil {
			fmt.Fprintf(out, "    %q\n", cc.RelevantContent)
			for _, h := range cc.Highlights {
				p := h.BBox.Percent()
				fmt.Fprintf(out, "    left %.1f%% top %.1f%% width %.1f%% height %.1f%%\n", p.Left, p.Top, p.Width, p.Height)
			}
		}
	}
}

func writeCitations(dir string, msg *domain.Message) error {
	indexes := make([]int, 0, len(msg.CitationContents))
	for i := range msg.CitationContents {
		indexes = append(indexes, i)
	}
	slices.Sort(indexes)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, i := range indexes {
		cc := msg.CitationContents[i]
		img, err := domain.ParseImage(cc.ScreenshotURL)
		if err != nil {
			return err
		}
		boxes := make([]domain.BoundingBox, len(cc.Highlights))
		for j, h := range cc.Highlights {
			boxes[j] = h.BBox
		}
		if err := writeAnnotated(filepath.Join(dir, fmt.Sprintf("citation-%d.png", i)), img, boxes); err != nil {
			return err
		}
	}
	return nil
}
