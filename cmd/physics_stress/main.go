// Stress test for world bounds queries: AABB sweep through the world versus
// brute-force oriented-box overlap between every proxy pair.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"rigid3d/internal/physics"
	"rigid3d/internal/shapes"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	seed := flag.Int64("seed", 42, "random seed")
	skin := flag.Float64("skin", 0, "grow each query box by this distance")
	flag.Parse()

	// Test various object counts
	testCounts := []int{100, 500, 1000, 2000, 5000}

	for _, count := range testCounts {
		if err := testBounds(count, *seed, float32(*skin)); err != nil {
			log.Fatal(err)
		}
	}
}

// palette is the small set of shapes every body picks from, so the world
// deduplicates them into a handful of stored shapes.
func palette() ([]shapes.Shape, error) {
	var out []shapes.Shape
	builders := []func() (shapes.Shape, error){
		func() (shapes.Shape, error) { return shapes.NewSphere(0.5) },
		func() (shapes.Shape, error) { return shapes.NewBox(rl.Vector3{X: 0.5, Y: 0.25, Z: 0.75}) },
		func() (shapes.Shape, error) { return shapes.NewCone(0.5, 1) },
		func() (shapes.Shape, error) { return shapes.NewCylinder(0.4, 1) },
		func() (shapes.Shape, error) { return shapes.NewCapsule(0.3, 0.8) },
	}
	for _, build := range builders {
		s, err := build()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func testBounds(count int, seed int64, skin float32) error {
	rng := rand.New(rand.NewSource(seed)) // Consistent results
	kinds, err := palette()
	if err != nil {
		return err
	}

	w := physics.NewCollisionWorld(0)
	defer w.Destroy()

	// Spawn in a cube, size scales with count to keep density reasonable
	spawnSize := float32(50.0) + float32(count)/100.0
	proxies := make([]*physics.ProxyShape, 0, count)

	for i := 0; i < count; i++ {
		sid, err := w.CreateShape(kinds[rng.Intn(len(kinds))])
		if err != nil {
			return err
		}
		pos := rl.Vector3{
			X: rng.Float32()*spawnSize - spawnSize/2,
			Y: rng.Float32()*spawnSize - spawnSize/2,
			Z: rng.Float32()*spawnSize - spawnSize/2,
		}
		rot := rl.Vector3{X: rng.Float32() * 360, Y: rng.Float32() * 360, Z: rng.Float32() * 360}
		bid, err := w.CreateBody(fmt.Sprintf("body%d", i), physics.TransformFromEuler(pos, rot))
		if err != nil {
			return err
		}
		pid, err := w.AddProxy(bid, sid, physics.Identity(), 1)
		if err != nil {
			return err
		}
		p, _ := w.Proxy(pid)
		proxies = append(proxies, p)
	}

	// World sweep: one AABB query per proxy
	sweepStart := time.Now()
	var sweepHits int
	for _, p := range proxies {
		sweepHits += len(w.QueryAABB(p.WorldBounds().Inflate(skin))) - 1
	}
	sweepTime := time.Since(sweepStart)

	// Brute force O(n²) with the oriented-box refinement
	bruteStart := time.Now()
	var bruteHits int
	for i := 0; i < len(proxies); i++ {
		for j := i + 1; j < len(proxies); j++ {
			if proxies[i].BoundsOverlap(proxies[j]) {
				bruteHits++
			}
		}
	}
	bruteTime := time.Since(bruteStart)

	fmt.Printf("%5d objects (%d shapes): sweep %10v (%5d AABB pairs) | brute %10v (%5d OBB pairs)\n",
		count, w.NumShapes(), sweepTime.Round(time.Microsecond), sweepHits/2,
		bruteTime.Round(time.Microsecond), bruteHits)
	return nil
}
