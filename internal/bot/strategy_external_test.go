package bot

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarloMagno/Warlight/pkg/warlight"
)

// mockExternalBotSource answers every request, including orders for the
// wrong player that the strategy has to filter out.
const mockExternalBotSource = `package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

func main() {
	me, them := "", ""
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "settings your_bot "):
			me = strings.TrimPrefix(line, "settings your_bot ")
		case strings.HasPrefix(line, "settings opponent_bot "):
			them = strings.TrimPrefix(line, "settings opponent_bot ")
		case strings.HasPrefix(line, "pick_starting_regions "):
			f := strings.Fields(line)
			fmt.Println("99 " + strings.Join(f[2:], " "))
		case strings.HasPrefix(line, "go place_armies"):
			fmt.Printf("%s place_armies 10 5, %s place_armies 30 2\n", me, them)
		case strings.HasPrefix(line, "go attack/transfer"):
			fmt.Printf("%s attack/transfer 10 11 3\n", me)
		}
	}
}
`

// mockMuteBotSource never answers.
const mockMuteBotSource = `package main

import (
	"bufio"
	"os"
)

func main() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
	}
}
`

func buildMockBot(t *testing.T, source string) string {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(src, []byte(source), 0644))
	bin := filepath.Join(dir, "mock_bot")
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	out, err := exec.Command("go", "build", "-o", bin, src).CombinedOutput()
	require.NoError(t, err, "build mock bot: %s", out)
	return bin
}

func externalState() *State {
	m := warlight.StandardMap()
	gs := warlight.NewGameState(m, 2)
	gs.Set(10, me, 6)
	return &State{Me: me, Opponent: opp, StartingArmies: 5, Map: m, GameState: gs}
}

func TestExternalStrategy(t *testing.T) {
	es, err := NewExternalStrategy(buildMockBot(t, mockExternalBotSource), 5*time.Second, HoldStrategy{})
	require.NoError(t, err)
	defer es.Close()
	st := externalState()

	assert.Equal(t, []int{3, 7}, es.PickStartingRegions(st, []int{3, 7, 11}, 2))
	assert.Equal(t, []warlight.PlaceOrder{place(10, 5)}, es.PlaceArmies(st))
	assert.Equal(t, []warlight.AttackTransferOrder{move(10, 11, 3)}, es.AttackTransfer(st))
}

func TestExternalStrategyFallsBackOnTimeout(t *testing.T) {
	es, err := NewExternalStrategy(buildMockBot(t, mockMuteBotSource), 100*time.Millisecond, HoldStrategy{})
	require.NoError(t, err)
	defer es.Close()
	st := externalState()

	assert.Equal(t, []warlight.PlaceOrder{place(10, 5)}, es.PlaceArmies(st))
	assert.Nil(t, es.AttackTransfer(st))
}

func TestNewExternalStrategyMissingBinary(t *testing.T) {
	_, err := NewExternalStrategy(filepath.Join(t.TempDir(), "nope"), time.Second, HoldStrategy{})
	assert.Error(t, err)
}
