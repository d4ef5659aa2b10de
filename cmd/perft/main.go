// Command perft is a bitboard-based move-path counter: given a position and
// a depth, it reports how many distinct legal move sequences exist from
// that position, optionally broken down per root move.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sort"
	"strings"
	"time"

	"github.com/hailam/chessplay/perft/internal/board"
)

type namedPosition struct {
	name  string
	fen   string
	depth int
}

var predefinedPositions = []namedPosition{
	{"startpos", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -", 6},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", 5},
	{"pins", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", 6},
	{"cpw4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq -", 5},
	{"cpw5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ -", 5},
	{"cpw6", "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - -", 5},
	{"promotions", "n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - -", 6},
}

func main() {
	fenFlag := flag.String("fen", "", "FEN string, or the name of a predefined position")
	movesFlag := flag.String("moves", "", "comma-separated UCI moves applied to the root position before counting")
	depthFlag := flag.Int("depth", 0, "perft depth")
	upto := flag.Bool("upto", false, "report depths 1..depth instead of just depth")
	divide := flag.Bool("divide", false, "report the leaf count contributed by each root move")
	bench := flag.Bool("bench", false, "run the predefined suite and report timing")
	compiler := flag.Bool("compiler", false, "print build info and exit")
	cpuProfile := flag.String("cpuprofile", "", "write a CPU profile to this file during the run")
	flag.Parse()

	if *compiler {
		fmt.Println(buildInfo())
		return
	}

	modesSelected := 0
	for _, set := range []bool{*bench, *upto, *divide} {
		if set {
			modesSelected++
		}
	}
	if modesSelected > 1 {
		fmt.Println("Incorrect usage: bench, divide, and upto are mutually exclusive")
		os.Exit(0)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating cpuprofile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "starting cpu profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	switch {
	case *bench:
		runBench()
	case *fenFlag != "":
		runPosition(*fenFlag, *movesFlag, *depthFlag, *upto, *divide)
	default:
		flag.Usage()
		fmt.Println("\nPredefined positions:")
		for _, p := range predefinedPositions {
			fmt.Printf("  %-12s %s\n", p.name, p.fen)
		}
		os.Exit(2)
	}
}

func resolveFEN(fenOrName string, depth int) (string, int) {
	for _, p := range predefinedPositions {
		if p.name == fenOrName {
			if depth == 0 {
				depth = p.depth
			}
			return p.fen, depth
		}
	}
	return fenOrName, depth
}

func runPosition(fenFlag, movesFlag string, depth int, upto, divide bool) {
	fen, depth := resolveFEN(fenFlag, depth)

	b, err := board.ParseFEN(fen)
	if err != nil {
		fmt.Printf("Error: FEN parser failed on %q: %v\n", fen, err)
		os.Exit(0)
	}

	if movesFlag != "" {
		for _, mv := range strings.Split(movesFlag, ",") {
			m, err := board.ParseMove(mv, b)
			if err != nil {
				fmt.Printf("Error: move parser failed on %q: %v\n", mv, err)
				os.Exit(0)
			}
			*b = board.ApplyMove(*b, m)
		}
	}

	if depth == 0 {
		fmt.Println("Error: depth is zero")
		os.Exit(0)
	}

	fmt.Println(b.String())

	if divide {
		entries := board.Divide(*b, depth)
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Move.String() < entries[j].Move.String()
		})

		var total int64
		for _, e := range entries {
			fmt.Printf("%s: %d\n", e.Move.String(), e.Nodes)
			total += e.Nodes
		}
		fmt.Printf("\nTotal: %d\n", total)
		return
	}

	fmt.Printf("%-6s %-14s %-12s %s\n", "Depth", "Nodes", "Time (ms)", "Nodes/sec")
	start := 1
	if !upto {
		start = depth
	}
	for d := start; d <= depth; d++ {
		t0 := time.Now()
		nodes := board.Perft(*b, d)
		elapsed := time.Since(t0)
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Printf("%-6d %-14d %-12d %.0f\n", d, nodes, elapsed.Milliseconds(), nps)
	}
}

func runBench() {
	fmt.Printf("%-12s %-6s %-14s %-12s %s\n", "Name", "Depth", "Nodes", "Time (ms)", "Nodes/sec")

	var totalNodes int64
	var totalTime time.Duration

	for _, p := range predefinedPositions {
		b, err := board.ParseFEN(p.fen)
		if err != nil {
			fmt.Printf("Error: FEN parser failed on %q: %v\n", p.fen, err)
			continue
		}

		t0 := time.Now()
		nodes := board.Perft(*b, p.depth)
		elapsed := time.Since(t0)

		totalNodes += nodes
		totalTime += elapsed

		nps := float64(nodes) / elapsed.Seconds()
		fmt.Printf("%-12s %-6d %-14d %-12d %.0f\n", p.name, p.depth, nodes, elapsed.Milliseconds(), nps)
	}

	nps := 1000 * float64(totalNodes) / float64(totalTime.Milliseconds())
	fmt.Printf("%-12s %-6s %-14d %-12d %.0f\n", "total/avg", "-", totalNodes, totalTime.Milliseconds(), nps)
}

func buildInfo() string {
	return fmt.Sprintf("OS: %s\nArch: %s\nGo: %s\nMove generation: fancy magic bitboards\n",
		runtime.GOOS, runtime.GOARCH, runtime.Version())
}
