// Command gridduel is the front door to the gridduel rules engine.
//
// It validates authored boards, resolves rounds between two boards, converts
// boards to and from their compact string form, seals and opens challenge
// envelopes, generates CPU boards, runs best-of series, and manages the local
// board library. Boards are given either as codec strings ("5|20p15p...") or
// as paths to JSON files in the board.Board shape.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/tmaxey/gridduel/game/board"
	"github.com/tmaxey/gridduel/game/challenge"
	"github.com/tmaxey/gridduel/game/codec"
	"github.com/tmaxey/gridduel/game/duel"
	"github.com/tmaxey/gridduel/game/generator"
	"github.com/tmaxey/gridduel/game/library"
	"github.com/tmaxey/gridduel/game/match"
	"github.com/tmaxey/gridduel/game/rules"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "gridduel"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	if err := rootCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func rootCommand() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "author, validate, exchange, and resolve gridduel boards",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "zerolog level (trace, debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			lvl, err := zerolog.ParseLevel(cmd.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("bad log level %q: %w", cmd.String("log-level"), err)
			}
			zerolog.SetGlobalLevel(lvl)
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
			return ctx, nil
		},
		Commands: []*cli.Command{
			validateCommand(),
			simulateCommand(),
			encodeCommand(),
			decodeCommand(),
			challengeCommand(),
			generateCommand(),
			duelCommand(),
			libraryCommand(),
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check a board against the authoring rules",
		ArgsUsage: "<board>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return cli.Exit("validate takes exactly one board", 2)
			}
			b, err := loadBoard(cmd.Args().First())
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			r := rules.Validate(b)
			if r.Valid {
				fmt.Printf("board %q is legal (%d moves, size %d)\n", b.Name, len(b.Moves), b.Size)
				return nil
			}
			for _, e := range r.Errors {
				fmt.Println(e)
			}
			return cli.Exit(fmt.Sprintf("board has %d problem(s)", len(r.Errors)), 1)
		},
	}
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "resolve one round between two legal boards",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "player", Usage: "the player's board", Required: true},
			&cli.StringFlag{Name: "opponent", Usage: "the opponent's board", Required: true},
			&cli.IntFlag{Name: "round", Usage: "round number", Value: 1},
			&cli.BoolFlag{Name: "json", Usage: "print the full result as JSON"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			pb, err := loadLegalBoard(cmd.String("player"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("player board: %v", err), 1)
			}
			ob, err := loadLegalBoard(cmd.String("opponent"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("opponent board: %v", err), 1)
			}

			r := match.Simulate(int(cmd.Int("round")), pb, ob)
			if cmd.Bool("json") {
				return printJSON(r)
			}
			fmt.Print(formatRound(r))
			return nil
		},
	}
}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "print a board's compact string form",
		ArgsUsage: "<board.json>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return cli.Exit("encode takes exactly one board", 2)
			}
			b, err := loadBoard(cmd.Args().First())
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			s, err := codec.Encode(b)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Println(s)
			return nil
		},
	}
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "parse a compact board string and print the board as JSON",
		ArgsUsage: "<string>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return cli.Exit("decode takes exactly one board string", 2)
			}
			b, err := codec.Decode(cmd.Args().First())
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return printJSON(b)
		},
	}
}

func challengeCommand() *cli.Command {
	return &cli.Command{
		Name:  "challenge",
		Usage: "seal a board into a challenge string, or open one",
		Commands: []*cli.Command{
			{
				Name:      "seal",
				Usage:     "pack a legal board into a challenge string",
				ArgsUsage: "<board>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "sender name"},
					&cli.IntFlag{Name: "round", Usage: "round number", Value: 1},
					&cli.StringFlag{Name: "note", Usage: "free-form message for the receiver"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return cli.Exit("seal takes exactly one board", 2)
					}
					b, err := loadLegalBoard(cmd.Args().First())
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					encoded, err := codec.Encode(b)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					s, err := challenge.Seal(challenge.Challenge{
						From:  cmd.String("from"),
						Round: int(cmd.Int("round")),
						Note:  cmd.String("note"),
						Board: encoded,
					})
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					fmt.Println(s)
					return nil
				},
			},
			{
				Name:      "open",
				Usage:     "unpack a challenge string and validate its board",
				ArgsUsage: "<challenge>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return cli.Exit("open takes exactly one challenge string", 2)
					}
					c, err := challenge.Open(cmd.Args().First())
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					b, err := codec.Decode(c.Board)
					if err != nil {
						return cli.Exit(fmt.Sprintf("challenge board: %v", err), 1)
					}
					if r := rules.Validate(b); !r.Valid {
						for _, e := range r.Errors {
							fmt.Println(e)
						}
						return cli.Exit("challenge board is illegal", 1)
					}
					from := c.From
					if from == "" {
						from = "unknown sender"
					}
					fmt.Printf("round %d challenge from %s: %s\n", c.Round, from, c.Board)
					if c.Note != "" {
						fmt.Printf("note: %s\n", c.Note)
					}
					return nil
				},
			},
		},
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "build a legal CPU board",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "size", Usage: "board size", Value: 5},
			&cli.StringFlag{Name: "difficulty", Usage: "casual, standard, or cutthroat", Value: string(generator.Standard)},
			&cli.IntFlag{Name: "seed", Usage: "generation seed (0 picks one from the clock)"},
			&cli.BoolFlag{Name: "json", Usage: "print the board as JSON too"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			seed := int64(cmd.Int("seed"))
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			b, err := generator.New(seed).Generate(int(cmd.Int("size")), generator.Difficulty(cmd.String("difficulty")))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			s, err := codec.Encode(b)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			log.Debug().Int64("seed", seed).Msg("generated board")
			fmt.Println(s)
			if cmd.Bool("json") {
				return printJSON(b)
			}
			return nil
		},
	}
}

func duelCommand() *cli.Command {
	return &cli.Command{
		Name:  "duel",
		Usage: "run a best-of series of rounds between two board lists",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "player", Usage: "player boards, one per round", Required: true},
			&cli.StringSliceFlag{Name: "opponent", Usage: "opponent boards, one per round", Required: true},
			&cli.IntFlag{Name: "best-of", Usage: "series length (0 plays every board pair)"},
			&cli.StringFlag{Name: "player-name", Value: "player"},
			&cli.StringFlag{Name: "opponent-name", Value: "opponent"},
			&cli.BoolFlag{Name: "record", Usage: "record rounds in the library"},
			&cli.StringFlag{Name: "db", Usage: "library path: a .db file for SQLite, anything else for JSON files", Value: "gridduel.db", Sources: cli.EnvVars("GRIDDUEL_DB")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			players, err := loadLegalBoards(cmd.StringSlice("player"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("player boards: %v", err), 1)
			}
			opponents, err := loadLegalBoards(cmd.StringSlice("opponent"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("opponent boards: %v", err), 1)
			}

			rounds := len(players)
			if len(opponents) < rounds {
				rounds = len(opponents)
			}
			if bestOf := int(cmd.Int("best-of")); bestOf > 0 && bestOf < rounds {
				rounds = bestOf
			}
			d, err := duel.New(cmd.String("player-name"), cmd.String("opponent-name"), rounds)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			var store library.Store
			var opp library.OpponentRecord
			if cmd.Bool("record") {
				store, err = openLibrary(cmd.String("db"))
				if err != nil {
					return cli.Exit(fmt.Sprintf("open library: %v", err), 1)
				}
				defer store.Close()
				opp, err = store.SaveOpponent(ctx, library.OpponentRecord{Name: cmd.String("opponent-name")})
				if err != nil {
					return cli.Exit(fmt.Sprintf("record opponent: %v", err), 1)
				}
			}

			for i := 0; i < rounds; i++ {
				r := match.Simulate(i+1, players[i], opponents[i])
				if err := d.AddResult(*r); err != nil {
					return cli.Exit(err.Error(), 1)
				}
				fmt.Print(formatRound(r))
				if store != nil {
					if _, err := store.SaveResult(ctx, opp.ID, r); err != nil {
						return cli.Exit(fmt.Sprintf("record round %d: %v", r.Round, err), 1)
					}
					opp.LastRound = r.Round
					if _, err := store.SaveOpponent(ctx, opp); err != nil {
						return cli.Exit(fmt.Sprintf("record opponent: %v", err), 1)
					}
				}
			}

			fmt.Print(formatSeries(d))
			return nil
		},
	}
}

func libraryCommand() *cli.Command {
	dbFlag := &cli.StringFlag{
		Name:    "db",
		Usage:   "library path: a .db file for SQLite, anything else for JSON files",
		Value:   "gridduel.db",
		Sources: cli.EnvVars("GRIDDUEL_DB"),
	}
	openStore := func(cmd *cli.Command) (library.Store, error) {
		return openLibrary(cmd.String("db"))
	}

	return &cli.Command{
		Name:  "library",
		Usage: "manage stored boards, opponents, and round history",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "store a legal board",
				ArgsUsage: "<board>",
				Flags:     []cli.Flag{dbFlag, &cli.StringFlag{Name: "name", Usage: "rename the board on save"}},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return cli.Exit("add takes exactly one board", 2)
					}
					b, err := loadLegalBoard(cmd.Args().First())
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					if name := cmd.String("name"); name != "" {
						b.Name = name
					}
					s, err := openStore(cmd)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					defer s.Close()
					rec, err := s.SaveBoard(ctx, b)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					fmt.Printf("saved %q as %s\n", rec.Name, rec.ID)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "list stored boards, newest first",
				Flags: []cli.Flag{dbFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					s, err := openStore(cmd)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					defer s.Close()
					recs, err := s.ListBoards(ctx)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					if len(recs) == 0 {
						fmt.Println("library is empty")
						return nil
					}
					for _, rec := range recs {
						fmt.Printf("%s  %-20s  size %-3d %s\n", rec.ID, rec.Name, rec.Size, rec.Encoded)
					}
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "print one stored board as JSON",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{dbFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return cli.Exit("show takes exactly one board id", 2)
					}
					s, err := openStore(cmd)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					defer s.Close()
					b, err := s.GetBoard(ctx, cmd.Args().First())
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					return printJSON(b)
				},
			},
			{
				Name:      "rm",
				Usage:     "delete a stored board",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{dbFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return cli.Exit("rm takes exactly one board id", 2)
					}
					s, err := openStore(cmd)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					defer s.Close()
					if err := s.DeleteBoard(ctx, cmd.Args().First()); err != nil {
						return cli.Exit(err.Error(), 1)
					}
					fmt.Println("deleted")
					return nil
				},
			},
			{
				Name:  "opponents",
				Usage: "list known opponents",
				Flags: []cli.Flag{dbFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					s, err := openStore(cmd)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					defer s.Close()
					opps, err := s.ListOpponents(ctx)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					if len(opps) == 0 {
						fmt.Println("no opponents yet")
						return nil
					}
					for _, o := range opps {
						fmt.Printf("%s  %-20s  last round %d\n", o.ID, o.Name, o.LastRound)
					}
					return nil
				},
			},
			{
				Name:      "results",
				Usage:     "list recorded rounds against one opponent",
				ArgsUsage: "<opponent-id>",
				Flags:     []cli.Flag{dbFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return cli.Exit("results takes exactly one opponent id", 2)
					}
					s, err := openStore(cmd)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					defer s.Close()
					recs, err := s.ListResults(ctx, cmd.Args().First())
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					if len(recs) == 0 {
						fmt.Println("no recorded rounds")
						return nil
					}
					for _, r := range recs {
						fmt.Printf("round %-3d %-8s  %d-%d  %s\n", r.Round, r.Winner, r.PlayerPoints, r.OpponentPoints, r.PlayerOutcome)
					}
					return nil
				},
			},
		},
	}
}

// openLibrary picks the storage backend from the path: a .db file opens
// SQLite, anything else is treated as a directory of JSON records.
func openLibrary(path string) (library.Store, error) {
	if strings.EqualFold(filepath.Ext(path), ".db") {
		return library.NewSQLiteStore(path)
	}
	return library.NewFileStore(path)
}

// loadBoard reads a board from a codec string or a path to a JSON file.
func loadBoard(arg string) (*board.Board, error) {
	if strings.Contains(arg, "|") {
		return codec.Decode(arg)
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, err
	}
	var b board.Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse %s: %w", arg, err)
	}
	return &b, nil
}

// loadLegalBoard loads a board and refuses it unless it validates. The
// simulator assumes legality, so the gate lives here.
func loadLegalBoard(arg string) (*board.Board, error) {
	b, err := loadBoard(arg)
	if err != nil {
		return nil, err
	}
	if r := rules.Validate(b); !r.Valid {
		return nil, fmt.Errorf("illegal board: %s", strings.Join(r.Errors, "; "))
	}
	return b, nil
}

func loadLegalBoards(args []string) ([]*board.Board, error) {
	if len(args) == 0 {
		return nil, errors.New("no boards given")
	}
	out := make([]*board.Board, 0, len(args))
	for _, arg := range args {
		b, err := loadLegalBoard(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// formatRound renders a result the way the round screen summarizes it.
func formatRound(r *match.RoundResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "round %d: %s", r.Round, r.Winner)
	if r.Winner == match.SideTie {
		sb.WriteString(" game")
	} else {
		sb.WriteString(" wins")
	}
	fmt.Fprintf(&sb, " %d-%d (%s", r.PlayerPoints, r.OpponentPoints, r.PlayerOutcome)
	if r.Collision {
		sb.WriteString(", collision")
	}
	if r.Details.PlayerHitTrap {
		sb.WriteString(", player trapped")
	}
	if r.Details.OpponentHitTrap {
		sb.WriteString(", opponent trapped")
	}
	sb.WriteString(")\n")
	return sb.String()
}

// formatSeries renders the standing after a series of recorded rounds.
func formatSeries(d *duel.Duel) string {
	pw, ow := d.RoundsWon()
	pt, ot := d.Totals()
	var sb strings.Builder
	fmt.Fprintf(&sb, "series: %s %d, %s %d (points %d-%d)\n",
		d.PlayerName, pw, d.OpponentName, ow, pt, ot)
	switch d.Leader() {
	case match.SidePlayer:
		fmt.Fprintf(&sb, "%s leads\n", d.PlayerName)
	case match.SideOpponent:
		fmt.Fprintf(&sb, "%s leads\n", d.OpponentName)
	default:
		sb.WriteString("all square\n")
	}
	return sb.String()
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Println(string(data))
	return nil
}
