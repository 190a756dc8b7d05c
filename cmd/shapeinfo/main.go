// Prints the geometry of every proxy in a scene: bounds, support points
// along the axes and per-body mass properties.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"rigid3d/internal/physics"
	"rigid3d/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var axes = []struct {
	name string
	dir  rl.Vector3
}{
	{"+X", rl.Vector3{X: 1}}, {"-X", rl.Vector3{X: -1}},
	{"+Y", rl.Vector3{Y: 1}}, {"-Y", rl.Vector3{Y: -1}},
	{"+Z", rl.Vector3{Z: 1}}, {"-Z", rl.Vector3{Z: -1}},
}

func main() {
	scenePath := flag.String("scene", "", "scene YAML file (default: built-in demo scene)")
	watch := flag.Bool("watch", false, "re-print whenever the scene file changes")
	margin := flag.Bool("margin", true, "include the margin in support points")
	flag.Parse()

	if err := report(os.Stdout, *scenePath, *margin); err != nil {
		log.Fatal(err)
	}
	if !*watch {
		return
	}
	if *scenePath == "" {
		log.Fatal("-watch needs -scene")
	}

	w, err := scene.NewWatcher(filepath.Dir(*scenePath))
	if err != nil {
		log.Fatalf("watch: %v", err)
	}
	defer w.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	target, _ := filepath.Abs(*scenePath)
	log.Printf("Scene: watching %s", *scenePath)

	for {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return
			}
			if abs, _ := filepath.Abs(path); abs != target {
				continue
			}
			if err := report(os.Stdout, *scenePath, *margin); err != nil {
				log.Printf("Scene: reload failed: %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("Scene: watch error: %v", err)
		case <-stop:
			return
		}
	}
}

func loadFile(path string) (*scene.File, error) {
	if path == "" {
		return scene.Default()
	}
	return scene.Load(path)
}

func report(out io.Writer, path string, includeMargin bool) error {
	f, err := loadFile(path)
	if err != nil {
		return err
	}
	s, err := f.Build()
	if err != nil {
		return err
	}
	defer s.World.Destroy()

	for _, b := range s.Bodies {
		body, _ := s.World.Body(b.ID)
		t := body.Transform()
		fmt.Fprintf(out, "body %q at %s\n", b.Name, fmtVec(t.Position))

		for _, pid := range b.Proxies {
			p, _ := s.World.Proxy(pid)
			printProxy(out, p, includeMargin)
		}

		props, err := s.World.BodyMassProperties(b.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  mass %.4g  center %s  inertia diag (%.4g, %.4g, %.4g)\n",
			props.Mass, fmtVec(props.CenterOfMass),
			props.Inertia.At(0, 0), props.Inertia.At(1, 1), props.Inertia.At(2, 2))
	}

	if box, ok := s.World.Bounds(); ok {
		fmt.Fprintf(out, "scene bounds %s .. %s\n", fmtVec(box.Min), fmtVec(box.Max))
	}
	a := s.World.Arena()
	if a.Capacity() > 0 {
		fmt.Fprintf(out, "arena: %d bytes used, %d peak, %d capacity\n", a.Used(), a.Peak(), a.Capacity())
	} else {
		fmt.Fprintf(out, "arena: %d bytes used, %d peak, unlimited\n", a.Used(), a.Peak())
	}
	return nil
}

func printProxy(out io.Writer, p *physics.ProxyShape, includeMargin bool) {
	shape := p.Shape()
	lo, hi := shape.LocalBounds()
	world := p.WorldBounds()

	fmt.Fprintf(out, "  %s mass=%.4g\n", shape, p.Mass())
	fmt.Fprintf(out, "    local bounds %s .. %s\n", fmtVec(lo), fmtVec(hi))
	fmt.Fprintf(out, "    world bounds %s .. %s\n", fmtVec(world.Min), fmtVec(world.Max))
	for _, a := range axes {
		fmt.Fprintf(out, "    support %s %s\n", a.name, fmtVec(p.WorldSupportPoint(a.dir, includeMargin)))
	}
}

func fmtVec(v rl.Vector3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
