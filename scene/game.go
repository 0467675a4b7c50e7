package scene

import "github.com/milk9111/actorsim/system"

// magicBallTicks is how long a thrown magic ball stays in flight.
const magicBallTicks int32 = 40

type gameState struct {
	magicLevel int
	behaviour  system.HeroBehaviour
	ballUntil  int32
	ballActive bool
}

func (g *gameState) MagicBallActive() bool               { return g.ballActive }
func (g *gameState) MagicLevel() int                    { return g.magicLevel }
func (g *gameState) HeroBehaviour() system.HeroBehaviour { return g.behaviour }

func (g *gameState) launchBall(now int32) {
	g.ballActive = true
	g.ballUntil = now + magicBallTicks
}

// tick lands the magic ball once its flight time is over.
func (g *gameState) tick(now int32) {
	if g.ballActive && now >= g.ballUntil {
		g.ballActive = false
	}
}
