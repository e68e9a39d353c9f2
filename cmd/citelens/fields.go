package main

import (
	"errors"

	"github.com/liliang-cn/citelens/internal/config"
	"github.com/spf13/cobra"
)

func fieldsCMD(cfgPath *string) *cobra.Command {
	var imagePath, task, model string
	var locate bool
	var fields = &cobra.Command{
		Use:   "fields",
		Short: "Extract labelled values from an image",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*cfgPath, true, config.ComponentVision)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			img, err := readImage(imagePath)
			if err != nil {
				return err
			}

			svc := a.locateService()
			if locate {
				res := svc.LocateFields(cmd.Context(), img, task, model)
				if err := printJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
				if !res.IsSuccess {
					return errors.New(res.Message)
				}
				return nil
			}

			res := svc.ExtractFields(cmd.Context(), img, task, model)
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.IsSuccess {
				return errors.New(res.Message)
			}
			return nil
		},
	}
	fields.Flags().StringVar(&imagePath, "image", "", "image file")
	fields.Flags().StringVar(&task, "task", "", "what to extract, e.g. \"invoice number and due date\"")
	fields.Flags().StringVar(&model, "model", "", "vision model (default from config)")
	fields.Flags().BoolVar(&locate, "locate", false, "also locate each value in the image")
	_ = fields.MarkFlagRequired("image")
	_ = fields.MarkFlagRequired("task")

	return fields
}
