// Command arcenciel is the CLI entry point for the rainbow-table engine:
// a thin wrapper over the generator and search packages, per spec §6.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/WanisC/arc-en-ciel/generator"
	"github.com/WanisC/arc-en-ciel/hash"
	"github.com/WanisC/arc-en-ciel/log"
	"github.com/WanisC/arc-en-ciel/search"
)

var (
	pathFlag = &cli.StringFlag{
		Name:  "path",
		Usage: "shard directory",
		Value: "./output/",
	}
	memFlag = &cli.BoolFlag{
		Name:  "mem",
		Usage: "resume from mem.txt if present",
		Value: true,
	}
	chainFlag = &cli.IntFlag{
		Name:  "chain",
		Usage: "chain length L",
		Value: 100,
	}
	lengthFlag = &cli.IntFlag{
		Name:  "length",
		Usage: "password length ℓ",
		Value: 7,
	}
	hashFlag = &cli.StringFlag{
		Name:  "hash",
		Usage: "single target digest, lowercase hex",
	}
	hashesFlag = &cli.StringFlag{
		Name:  "hashes",
		Usage: "path to a newline-separated digest file",
	}
)

func main() {
	log.Root().SetHandler(log.LvlFilterHandler(log.LvlInfo, log.StreamHandler(os.Stdout, log.LogfmtFormat())))

	app := &cli.App{
		Name:  "arcenciel",
		Usage: "rainbow-table chain generator and searcher",
		Commands: []*cli.Command{
			generateCommand,
			searchCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Crit("fatal error", "err", err)
	}
}

var generateCommand = &cli.Command{
	Name:   "generate",
	Usage:  "generate a shard table",
	Flags:  []cli.Flag{pathFlag, memFlag, chainFlag, lengthFlag},
	Action: runGenerate,
}

func runGenerate(c *cli.Context) error {
	if err := os.MkdirAll(c.String(pathFlag.Name), 0o755); err != nil {
		return fmt.Errorf("arcenciel: creating shard directory: %w", err)
	}

	cancel := new(generator.Cancel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go watchCancellation(ctx, cancel)

	cfg := generator.Config{
		Dir:            c.String(pathFlag.Name),
		ChainLength:    c.Int(chainFlag.Name),
		PasswordLength: c.Int(lengthFlag.Name),
		UseMemory:      c.Bool(memFlag.Name),
	}
	return generator.Run(ctx, cfg, cancel)
}

// watchCancellation bridges ctx's cancellation (raised by the signal
// handler installed in runGenerate) into the generator's cooperative
// flag. Workers check both the flag and ctx at each chain boundary, so
// either one stops a worker between chains, never mid-chain.
func watchCancellation(ctx context.Context, cancel *generator.Cancel) {
	<-ctx.Done()
	cancel.Set()
}

var searchCommand = &cli.Command{
	Name:   "search",
	Usage:  "search target digests against a shard table",
	Flags:  []cli.Flag{pathFlag, chainFlag, lengthFlag, hashFlag, hashesFlag},
	Action: runSearch,
}

func runSearch(c *cli.Context) error {
	hashes, err := targetHashes(c)
	if err != nil {
		return err
	}
	if len(hashes) == 0 {
		return fmt.Errorf("arcenciel: search requires --hash or --hashes")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := search.Config{
		Dir:            c.String(pathFlag.Name),
		ChainLength:    c.Int(chainFlag.Name),
		PasswordLength: c.Int(lengthFlag.Name),
		Hashes:         hashes,
	}
	result, err := search.Run(ctx, cfg)
	if err != nil {
		return err
	}

	for h, p := range result.Found {
		fmt.Fprintf(c.App.Writer, "%s %s\n", h.Hex(), p.String())
	}
	for _, h := range result.Missing {
		fmt.Fprintf(c.App.Writer, "%s not found\n", h.Hex())
	}
	return nil
}

func targetHashes(c *cli.Context) ([]hash.Hash, error) {
	var out []hash.Hash

	if single := c.String(hashFlag.Name); single != "" {
		h, err := hash.FromHex(single)
		if err != nil {
			return nil, fmt.Errorf("arcenciel: --hash: %w", err)
		}
		out = append(out, h)
	}

	if path := c.String(hashesFlag.Name); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("arcenciel: opening hash list: %w", err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			h, err := hash.FromHex(line)
			if err != nil {
				return nil, fmt.Errorf("arcenciel: malformed digest %q in hash list: %w", line, err)
			}
			out = append(out, h)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("arcenciel: reading hash list: %w", err)
		}
	}

	return out, nil
}
