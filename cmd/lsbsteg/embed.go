package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	lsbsteg "github.com/axbits/lsbsteg"
	"github.com/axbits/lsbsteg/codec"
)

func newEmbedCmd() *cobra.Command {
	var (
		dataFile   string
		inputFile  string
		outputFile string
		lsbs       int
		seed       uint64
		hashName   string
		formatName string
		zip        bool
		key        string
	)

	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Embed a file's bytes into a container image",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(dataFile)
			if err != nil {
				return fmt.Errorf("%w: data file: %v", lsbsteg.ErrIo, err)
			}
			container, err := os.ReadFile(inputFile)
			if err != nil {
				return fmt.Errorf("%w: input file: %v", lsbsteg.ErrIo, err)
			}

			if zip {
				if data, err = compress(data); err != nil {
					return fmt.Errorf("compress: %w", err)
				}
			}
			if key != "" {
				if data, err = encrypt(data, key); err != nil {
					return fmt.Errorf("encrypt: %w", err)
				}
			}

			tag, err := parseHashTag(hashName)
			if err != nil {
				return err
			}

			format, err := pickFormat(formatName, outputFile)
			if err != nil {
				return err
			}

			ext := strings.TrimPrefix(filepath.Ext(dataFile), ".")

			out, err := lsbsteg.Embed(data, ext, container, lsbs, tag, seed, format)
			if err != nil {
				return fmt.Errorf("embed: %w", err)
			}

			if err := os.WriteFile(outputFile, out, 0o644); err != nil {
				return fmt.Errorf("%w: output file: %v", lsbsteg.ErrIo, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataFile, "data", "", "path to the payload file to embed")
	cmd.Flags().StringVar(&inputFile, "in", "", "path to the container image")
	cmd.Flags().StringVar(&outputFile, "out", "", "path to write the steganogram to")
	cmd.Flags().IntVar(&lsbs, "lsbs", 1, "least-significant bits per channel to use (1-8)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "64-bit permutation seed")
	cmd.Flags().StringVar(&hashName, "hash", "blake3", "checksum algorithm: blake3, sha256, sha512, sha1")
	cmd.Flags().StringVar(&formatName, "format", "", "output format (defaults to the output file's extension, or png)")
	cmd.Flags().BoolVar(&zip, "zip", false, "zlib-compress the payload before embedding")
	cmd.Flags().StringVar(&key, "key", "", "AES-256-GCM passphrase to encrypt the payload before embedding")

	for _, name := range []string{"data", "in", "out"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func pickFormat(name, outputFile string) (codec.Format, error) {
	if name != "" {
		return parseFormat(name)
	}
	return formatFromExt(outputFile), nil
}
