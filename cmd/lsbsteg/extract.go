package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	lsbsteg "github.com/axbits/lsbsteg"
)

func newExtractCmd() *cobra.Command {
	var (
		inputFile  string
		outputFile string
		lsbs       int
		seed       uint64
		zip        bool
		key        string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Recover an embedded payload from a steganogram",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := os.ReadFile(inputFile)
			if err != nil {
				return fmt.Errorf("%w: input file: %v", lsbsteg.ErrIo, err)
			}

			data, ext, err := lsbsteg.Extract(container, lsbs, seed)
			if err != nil {
				return fmt.Errorf("extract: %w", err)
			}

			if key != "" {
				if data, err = decrypt(data, key); err != nil {
					return fmt.Errorf("decrypt: %w", err)
				}
			}
			if zip {
				if data, err = decompress(data); err != nil {
					return fmt.Errorf("decompress: %w", err)
				}
			}

			out := outputFile
			if out == "" && ext != "" {
				out = "out." + ext
			} else if out == "" {
				out = "out"
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("%w: output file: %v", lsbsteg.ErrIo, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputFile, "in", "", "path to the steganogram")
	cmd.Flags().StringVar(&outputFile, "out", "", "path to write the recovered payload to (defaults to out.<ext>)")
	cmd.Flags().IntVar(&lsbs, "lsbs", 1, "least-significant bits per channel used on embed (1-8)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "64-bit permutation seed used on embed")
	cmd.Flags().BoolVar(&zip, "zip", false, "zlib-decompress the recovered payload")
	cmd.Flags().StringVar(&key, "key", "", "AES-256-GCM passphrase to decrypt the recovered payload")

	_ = cmd.MarkFlagRequired("in")

	return cmd
}
