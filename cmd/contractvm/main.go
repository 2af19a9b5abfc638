// Command contractvm is a small CLI around the contract VM: composing wire
// envelopes, applying one against a goleveldb-backed store, and deploying a
// new contract.
//
// Usage:
//
//	contractvm compose --source ADDR --contract HEX --gasprice N --startgas N --value N --payload HEX
//	contractvm run --db PATH --source ADDR ENVELOPE_HEX
//	contractvm deploy --db PATH --source ADDR --gasprice N --startgas N --value N --code HEX
//
// Global flags: --log-level, --log-format (text|json|color).
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/paytokens/contractvm/core/processor"
	"github.com/paytokens/contractvm/core/state"
	"github.com/paytokens/contractvm/core/types"
	"github.com/paytokens/contractvm/core/vm"
	"github.com/paytokens/contractvm/crypto"
	"github.com/paytokens/contractvm/log"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "contractvm",
		Usage: "compose, run, and deploy contract VM transactions",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "log level: debug, info, warn, error"},
			&cli.StringFlag{Name: "log-format", Value: "text", Usage: "log format: text, json, color"},
		},
		Before: func(c *cli.Context) error {
			level := log.LevelFromString(c.String("log-level"))
			log.SetDefault(log.NewWithFormat(level, c.String("log-format"), os.Stderr))
			return nil
		},
		Commands: []*cli.Command{
			composeCommand(),
			runCommand(),
			deployCommand(),
		},
	}
}

func composeCommand() *cli.Command {
	return &cli.Command{
		Name:  "compose",
		Usage: "pack a transaction envelope and print it as hex",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Required: true, Usage: "sender address (hex)"},
			&cli.StringFlag{Name: "contract", Required: true, Usage: "destination contract id (hex); empty-word address means create"},
			&cli.Uint64Flag{Name: "gasprice", Required: true},
			&cli.Uint64Flag{Name: "startgas", Required: true},
			&cli.Uint64Flag{Name: "value", Value: 0},
			&cli.StringFlag{Name: "payload", Usage: "call data or init code (hex)"},
		},
		Action: func(c *cli.Context) error {
			// source is accepted for symmetry with run/deploy (a real caller
			// needs it to know who to sign the envelope as) but is not part
			// of the wire format itself; see core/types.Envelope.
			if _, err := parseAddress(c.String("source")); err != nil {
				return fmt.Errorf("source: %w", err)
			}
			contractID, err := parseAddress(c.String("contract"))
			if err != nil {
				return fmt.Errorf("contract: %w", err)
			}
			payload, err := parseHex(c.String("payload"))
			if err != nil {
				return fmt.Errorf("payload: %w", err)
			}

			raw := processor.Compose(contractID, c.Uint64("gasprice"), c.Uint64("startgas"), c.Uint64("value"), payload)
			fmt.Println(hex.EncodeToString(raw))
			return nil
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "apply a packed envelope against a store and print the resulting execution row",
		ArgsUsage: "ENVELOPE_HEX",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Required: true, Usage: "path to the goleveldb store"},
			&cli.StringFlag{Name: "source", Required: true, Usage: "sender address (hex)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one ENVELOPE_HEX argument, got %d", c.NArg())
			}
			raw, err := parseHex(c.Args().First())
			if err != nil {
				return fmt.Errorf("envelope: %w", err)
			}
			source, err := parseAddress(c.String("source"))
			if err != nil {
				return fmt.Errorf("source: %w", err)
			}

			store, err := state.Open(c.String("db"))
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			sink := &processor.InMemorySink{}
			txHash := crypto.Keccak256Hash(raw)
			evm := vm.NewEVM(vm.BlockContext{}, vm.Config{})
			if err := processor.Parse(evm, store, sink, 0, 0, txHash, source, raw); err != nil {
				return fmt.Errorf("parse: %w", err)
			}

			printRecord(sink.Records[0])
			return nil
		},
	}
}

func deployCommand() *cli.Command {
	return &cli.Command{
		Name:  "deploy",
		Usage: "compose and apply a contract-creation transaction",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Required: true, Usage: "path to the goleveldb store"},
			&cli.StringFlag{Name: "source", Required: true, Usage: "sender address (hex)"},
			&cli.Uint64Flag{Name: "gasprice", Required: true},
			&cli.Uint64Flag{Name: "startgas", Required: true},
			&cli.Uint64Flag{Name: "value", Value: 0},
			&cli.StringFlag{Name: "code", Required: true, Usage: "init code (hex)"},
		},
		Action: func(c *cli.Context) error {
			source, err := parseAddress(c.String("source"))
			if err != nil {
				return fmt.Errorf("source: %w", err)
			}
			code, err := parseHex(c.String("code"))
			if err != nil {
				return fmt.Errorf("code: %w", err)
			}

			store, err := state.Open(c.String("db"))
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			raw := processor.Compose(types.Address{}, c.Uint64("gasprice"), c.Uint64("startgas"), c.Uint64("value"), code)
			sink := &processor.InMemorySink{}
			txHash := crypto.Keccak256Hash(raw)
			evm := vm.NewEVM(vm.BlockContext{}, vm.Config{})
			if err := processor.Parse(evm, store, sink, 0, 0, txHash, source, raw); err != nil {
				return fmt.Errorf("parse: %w", err)
			}

			printRecord(sink.Records[0])
			return nil
		},
	}
}

func printRecord(rec types.ExecutionRecord) {
	fmt.Printf("status:        %s\n", rec.Status)
	fmt.Printf("gas_cost:      %d\n", rec.GasCost)
	fmt.Printf("gas_remaining: %d\n", rec.GasRemaining)
	fmt.Printf("contract_id:   %s\n", rec.ContractID.Hex())
	fmt.Printf("output:        %s\n", hex.EncodeToString(rec.Output))
}

// parseAddress accepts an empty string as the zero address (the
// create-contract sentinel), and otherwise any hex string types.HexToAddress
// understands.
func parseAddress(s string) (types.Address, error) {
	if s == "" {
		return types.Address{}, nil
	}
	if _, err := parseHex(s); err != nil {
		return types.Address{}, err
	}
	return types.HexToAddress(s), nil
}

func parseHex(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	trimmed := s
	if len(trimmed) >= 2 && trimmed[0] == '0' && (trimmed[1] == 'x' || trimmed[1] == 'X') {
		trimmed = trimmed[2:]
	}
	if len(trimmed)%2 == 1 {
		trimmed = "0" + trimmed
	}
	return hex.DecodeString(trimmed)
}
