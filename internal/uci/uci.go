// Package uci implements a Universal Chess Interface command loop driving
// the search engine. It is a thin protocol shell: parsing and printing are
// its whole job, and every actual search decision is delegated to engine.Driver.
package uci

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lchess/halcyon/internal/board"
	"github.com/lchess/halcyon/internal/engine"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	driver   *engine.Driver
	position *board.Position

	// Position history for repetition detection, including the current
	// position's own hash as its last entry.
	positionHashes []uint64

	searching     bool
	stop          chan struct{}
	searchDone    chan struct{}
	stopRequested atomic.Bool

	Log zerolog.Logger
}

// New creates a new UCI protocol handler around a driver.
func New(driver *engine.Driver) *UCI {
	pos := board.NewPosition()
	return &UCI{
		driver:         driver,
		position:       pos,
		positionHashes: []uint64{pos.Hash},
		Log:            driver.Logger,
	}
}

// Run starts the UCI main loop, reading commands from stdin until "quit".
func (u *UCI) Run() {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleQuit()
		case "setoption":
			u.handleSetOption(args)
		case "d":
			fmt.Println(u.position.String())
		case "perft":
			u.handlePerft(args)
		}
	}
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	fmt.Println("id name Halcyon")
	fmt.Println("id author Halcyon Team")
	fmt.Println()
	fmt.Println("option name Hash type spin default 64 min 1 max 4096")
	fmt.Println("option name LogLevel type string default info")
	fmt.Println("uciok")
}

// handleNewGame resets position state for a new game.
func (u *UCI) handleNewGame() {
	u.position = board.NewPosition()
	u.positionHashes = []uint64{u.position.Hash}
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var moveStart int

	switch args[0] {
	case "startpos":
		u.position = board.NewPosition()
		moveStart = findMoves(args, 1)
	case "fen":
		fenEnd := len(args)
		for i, arg := range args[1:] {
			if arg == "moves" {
				fenEnd = i + 1
				break
			}
		}
		pos, err := board.ParseFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string invalid FEN: %v\n", err)
			return
		}
		u.position = pos
		moveStart = findMoves(args, 1)
	default:
		return
	}

	u.positionHashes = []uint64{u.position.Hash}

	for _, moveStr := range args[moveStart:] {
		move := u.parseMove(moveStr)
		if move == board.NoMove {
			fmt.Fprintf(os.Stderr, "info string invalid move: %s\n", moveStr)
			return
		}
		u.position.MakeMove(move)
		u.position.UpdateCheckers()
		u.positionHashes = append(u.positionHashes, u.position.Hash)
	}
}

// findMoves returns the index just past a "moves" token in args, searching
// from start, or len(args) if absent.
func findMoves(args []string, start int) int {
	for i := start; i < len(args); i++ {
		if args[i] == "moves" {
			return i + 1
		}
	}
	return len(args)
}

// parseMove converts a UCI move string to a board.Move, validated against
// the current position's legal moves.
func (u *UCI) parseMove(moveStr string) board.Move {
	if len(moveStr) < 4 {
		return board.NoMove
	}

	from, err := board.ParseSquare(moveStr[0:2])
	if err != nil {
		return board.NoMove
	}
	to, err := board.ParseSquare(moveStr[2:4])
	if err != nil {
		return board.NoMove
	}

	var promo board.PieceType
	if len(moveStr) == 5 {
		switch moveStr[4] {
		case 'q':
			promo = board.Queen
		case 'r':
			promo = board.Rook
		case 'b':
			promo = board.Bishop
		case 'n':
			promo = board.Knight
		}
	}

	moves := u.position.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() != from || m.To() != to {
			continue
		}
		if promo != 0 {
			if m.IsPromotion() && m.Promotion() == promo {
				return m
			}
		} else if !m.IsPromotion() {
			return m
		}
	}

	return board.NoMove
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth     int
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

// handleGo starts a search with the given parameters. It maps every "go"
// time-control variant down to the single seconds budget GetBestMove
// accepts, per the driver's time-management contract.
func (u *UCI) handleGo(args []string) {
	opts := u.parseGoOptions(args)
	budget := u.calculateBudget(opts)

	u.searching = true
	u.stopRequested.Store(false)
	u.stop = make(chan struct{})
	u.searchDone = make(chan struct{})

	pos := u.position.Copy()
	hashes := append([]uint64(nil), u.positionHashes...)

	var g errgroup.Group
	g.Go(func() error {
		defer close(u.searchDone)
		bestMove := u.driver.GetBestMove(pos, hashes, budget, true, u.stop)
		u.searching = false
		u.sendBestMove(bestMove)
		return nil
	})

	go func() {
		if err := g.Wait(); err != nil {
			u.Log.Error().Err(err).Msg("search goroutine failed")
		}
	}()
}

// sendBestMove validates and prints the search's chosen move, falling back
// to any legal move if the search somehow returned an illegal one.
func (u *UCI) sendBestMove(bestMove board.Move) {
	validationPos := u.position.Copy()
	legal := validationPos.GenerateLegalMoves()

	if bestMove != board.NoMove {
		for i := 0; i < legal.Len(); i++ {
			if legal.Get(i) == bestMove {
				fmt.Printf("bestmove %s\n", bestMove.String())
				return
			}
		}
		u.Log.Warn().Str("move", bestMove.String()).Msg("search returned illegal move")
	}

	if legal.Len() > 0 {
		fmt.Printf("bestmove %s\n", legal.Get(0).String())
		return
	}
	fmt.Println("bestmove 0000")
}

// parseGoOptions parses "go" command arguments.
func (u *UCI) parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			opts.Infinite = true
		case "wtime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if i+1 < len(args) {
				opts.MovesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}

	return opts
}

// calculateBudget converts GoOptions to a whole-second time budget, the
// unit GetBestMove's iterative-deepening driver consults.
func (u *UCI) calculateBudget(opts GoOptions) int {
	const defaultSeconds = 5
	const infiniteSeconds = 3600

	if opts.Infinite {
		return infiniteSeconds
	}
	if opts.Depth > 0 && opts.MoveTime == 0 && opts.WTime == 0 && opts.BTime == 0 {
		return infiniteSeconds
	}
	if opts.MoveTime > 0 {
		return secondsCeil(opts.MoveTime)
	}
	if opts.WTime > 0 || opts.BTime > 0 {
		return secondsCeil(u.calculateTimeForMove(opts))
	}
	return defaultSeconds
}

func secondsCeil(d time.Duration) int {
	s := int(d / time.Second)
	if d%time.Second != 0 {
		s++
	}
	if s < 1 {
		s = 1
	}
	return s
}

// calculateTimeForMove determines how much time to spend on this move.
func (u *UCI) calculateTimeForMove(opts GoOptions) time.Duration {
	var ourTime, ourInc time.Duration

	if u.position.SideToMove == board.White {
		ourTime, ourInc = opts.WTime, opts.WInc
	} else {
		ourTime, ourInc = opts.BTime, opts.BInc
	}

	movesRemaining := opts.MovesToGo
	if movesRemaining == 0 {
		movesRemaining = u.estimateMovesRemaining()
	}

	baseTime := ourTime / time.Duration(movesRemaining)
	moveTime := baseTime + (ourInc * 90 / 100)

	maxTime := ourTime * 90 / 100
	if moveTime > maxTime {
		moveTime = maxTime
	}
	if moveTime < 10*time.Millisecond {
		moveTime = 10 * time.Millisecond
	}
	return moveTime
}

// estimateMovesRemaining estimates remaining moves based on piece count.
func (u *UCI) estimateMovesRemaining() int {
	totalPieces := u.position.AllOccupied.PopCount()
	switch {
	case totalPieces > 24:
		return 40
	case totalPieces > 12:
		return 30
	default:
		return 20
	}
}

// handleStop stops the current search and waits for it to finish.
func (u *UCI) handleStop() {
	if u.searching {
		u.stopRequested.Store(true)
		close(u.stop)
		<-u.searchDone
	}
}

// handleQuit exits the program.
func (u *UCI) handleQuit() {
	u.handleStop()
	os.Exit(0)
}

// handleSetOption processes "setoption" commands. Only Hash and LogLevel
// are meaningful here; NNUE/book/tablebase options from the original
// protocol surface are not — this engine has no such subsystems.
func (u *UCI) handleSetOption(args []string) {
	var name, value string
	readingName, readingValue := false, false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "loglevel":
		if lvl, err := zerolog.ParseLevel(strings.ToLower(value)); err == nil {
			u.Log = u.Log.Level(lvl)
			u.driver.Logger = u.Log
		}
	case "hash":
		// Table size is fixed at 2^22 entries per search request; no
		// live resize surface exists to wire this into.
	}
}

// handlePerft runs a leaf-node count to the given depth, a standard
// move-generator correctness check.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	start := time.Now()
	nodes := perft(u.position, depth)
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %d\n", nodes)
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}

func perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		nodes += perft(pos, depth-1)
		pos.UnmakeMove(m, undo)
	}
	return nodes
}
