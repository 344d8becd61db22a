// Command jsonize converts between JSON text and vpack documents: it reads
// INFILE (or stdin, with "-"), encodes or decodes it, and writes OUTFILE
// (or stdout). Grounded on hailam-genfile's cmd/cli/main.go: a single
// cobra root command with a composition root above it and a spinner
// covering the (potentially slow, for large documents) core operation.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/arloliu/vpack"
	"github.com/arloliu/vpack/internal/digest"
	"github.com/arloliu/vpack/jsonpack"
	"github.com/arloliu/vpack/vppress"
)

var (
	flagPretty       bool
	flagSortKeys     bool
	flagCheckUnique  bool
	flagValidateUTF8 bool
	flagCompress     string
	flagDecode       bool
	flagVerify       string
)

func main() {
	root := &cobra.Command{
		Use:   "jsonize INFILE OUTFILE",
		Short: "Convert between JSON text and vpack binary documents.",
		Long: `jsonize encodes a JSON document into vpack's compact binary format, or
decodes one back to JSON with --decode. Use "-" for INFILE or OUTFILE to
read from stdin / write to stdout.`,
		Args: cobra.ExactArgs(2),
		RunE: run,
	}

	root.Flags().BoolVar(&flagPretty, "pretty", false, "pretty-print JSON output (decode mode)")
	root.Flags().BoolVar(&flagSortKeys, "sort-keys", true, "sort object keys for binary-search lookup (encode mode)")
	root.Flags().BoolVar(&flagCheckUnique, "check-unique", false, "reject duplicate object keys (encode mode)")
	root.Flags().BoolVar(&flagValidateUTF8, "validate-utf8", false, "reject invalid UTF-8 in string literals")
	root.Flags().StringVar(&flagCompress, "compress", "none", "output file compression: none, zstd, s2, lz4")
	root.Flags().BoolVar(&flagDecode, "decode", false, "decode a vpack document back to JSON instead of encoding")
	root.Flags().StringVar(&flagVerify, "verify", "", "print the xxHash64 checksum of the encoded document to this path ('-' for stdout)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	inPath, outPath := args[0], args[1]

	algo, err := vppress.ParseAlgorithm(flagCompress)
	if err != nil {
		return err
	}

	in, err := openInput(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	input, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if flagDecode {
		sp.Prefix = fmt.Sprintf("Decoding %s... ", inPath)
	} else {
		sp.Prefix = fmt.Sprintf("Encoding %s... ", inPath)
	}
	sp.Start()

	var output []byte
	var checksum uint64
	if flagDecode {
		output, err = decode(input, algo)
	} else {
		output, checksum, err = encode(input, algo)
	}
	sp.Stop()
	if err != nil {
		return err
	}

	if err := writeOutput(outPath, output); err != nil {
		return err
	}

	if flagVerify != "" && !flagDecode {
		if err := writeVerify(flagVerify, checksum); err != nil {
			return err
		}
	}

	return nil
}

func encode(input []byte, algo vppress.Algorithm) ([]byte, uint64, error) {
	slice, err := jsonpack.Parse(input, jsonpack.ParseOptions{
		ValidateUTF8: flagValidateUTF8,
		BuilderOptions: []vpack.BuilderOption{
			vpack.WithSortAttributeNames(flagSortKeys),
			vpack.WithCheckAttributeUniqueness(flagCheckUnique),
			vpack.WithValidateUTF8Strings(flagValidateUTF8),
		},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("parsing JSON: %w", err)
	}

	doc := slice.Bytes()
	checksum := digest.Sum64(doc)

	if algo == vppress.None {
		return doc, checksum, nil
	}

	var buf bytes.Buffer
	if err := vppress.WriteEnvelope(&buf, algo, doc); err != nil {
		return nil, 0, fmt.Errorf("compressing output: %w", err)
	}

	return buf.Bytes(), checksum, nil
}

func decode(input []byte, algo vppress.Algorithm) ([]byte, error) {
	doc := input
	if algo != vppress.None {
		decoded, err := vppress.ReadEnvelope(bytes.NewReader(input))
		if err != nil {
			return nil, fmt.Errorf("decompressing input: %w", err)
		}
		doc = decoded
	}

	slice := vpack.NewSlice(doc)
	text, err := jsonpack.Dump(slice, jsonpack.DumpOptions{Pretty: flagPretty})
	if err != nil {
		return nil, fmt.Errorf("dumping JSON: %w", err)
	}

	return []byte(text), nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(path)
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)

		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func writeVerify(path string, checksum uint64) error {
	line := []byte(fmt.Sprintf("%016x\n", checksum))
	if path == "-" {
		_, err := os.Stdout.Write(line)

		return err
	}

	return os.WriteFile(path, line, 0o644)
}
