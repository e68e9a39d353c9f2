package main

import (
	"errors"

	"github.com/liliang-cn/citelens/internal/config"
	"github.com/spf13/cobra"
)

func locateCMD(cfgPath *string) *cobra.Command {
	var imagePath, content, model, out string
	var locate = &cobra.Command{
		Use:   "locate",
		Short: "Find where text appears in an image",
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

			res := a.locateService().LocateContent(cmd.Context(), img, content, model)
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.IsSuccess {
				return errors.New(res.Message)
			}
			if out != "" {
				return writeAnnotated(out, img, res.Data.Boxes)
			}
			return nil
		},
	}
	locate.Flags().StringVar(&imagePath, "image", "", "image file")
	locate.Flags().StringVar(&content, "content", "", "text to find")
	locate.Flags().StringVar(&model, "model", "", "vision model (default from config)")
	locate.Flags().StringVar(&out, "out", "", "write the annotated image to this PNG file")
	_ = locate.MarkFlagRequired("image")
	_ = locate.MarkFlagRequired("content")

	return locate
}
