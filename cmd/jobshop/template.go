package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jobShop/internal/loader"
)

func templateCmd() *cobra.Command {
	var (
		sample string
		csvDir string
	)

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Вывести шаблон экземпляра (YAML в stdout или пару CSV-файлов)",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loader.Sample(sample)
			if err != nil {
				return err
			}

			if csvDir == "" {
				data, err := loader.EncodeYAML(f)
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(data)
				return err
			}

			if err := os.MkdirAll(csvDir, 0o755); err != nil {
				return err
			}
			timesPath := filepath.Join(csvDir, "template_times.csv")
			routesPath := filepath.Join(csvDir, "template_routes.csv")

			tf, err := os.Create(timesPath)
			if err != nil {
				return err
			}
			defer tf.Close()
			rf, err := os.Create(routesPath)
			if err != nil {
				return err
			}
			defer rf.Close()

			if err := loader.WriteCSV(f, tf, rf); err != nil {
				return err
			}
			fmt.Println("Saved:", timesPath)
			fmt.Println("Saved:", routesPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&sample, "sample", "template", "встроенный пример: template | ft06")
	cmd.Flags().StringVar(&csvDir, "csv-dir", "", "каталог для CSV-шаблонов времён и маршрутов")
	return cmd
}
