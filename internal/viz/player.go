package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/trajectory"
)

const (
	canvasWidth  = 60
	canvasHeight = 24
	graphSpan    = 200
)

// VectorScale is the arrow length in world units per unit of momentum.
const VectorScale = 1.0

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

type PlayerOptions struct {
	Title   string
	G       float64
	Window  int
	Vectors bool
	// FPS is the playback rate; zero plays one frame per FrameDt of
	// simulated time.
	FPS   float64
	Theme string
}

// Player replays a computed trajectory frame by frame. It never integrates;
// every frame is read from the trajectory.
type Player struct {
	traj     *trajectory.Trajectory
	tracker  trajectory.Tracker
	opts     PlayerOptions
	energies []float64
	canvas   *Canvas
	view     Viewport
	theme    Theme
	interval time.Duration

	frame    int
	running  bool
	vectors  bool
	showHelp bool
}

func NewPlayer(traj *trajectory.Trajectory, opts PlayerOptions) (Player, error) {
	dyn, err := physics.NewGravity(opts.G, traj.Masses())
	if err != nil {
		return Player{}, err
	}
	energies := make([]float64, traj.Frames())
	for f := range energies {
		energies[f] = dyn.Energy(traj.State(f))
	}

	fps := opts.FPS
	if !(fps > 0) {
		fps = 1 / traj.FrameDt()
	}

	return Player{
		traj:     traj,
		tracker:  trajectory.NewTracker(traj, opts.Window),
		opts:     opts,
		energies: energies,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		view:     NewViewport(r2.Vec{X: -5, Y: -5}, r2.Vec{X: 5, Y: 5}, canvasWidth*2, canvasHeight*4),
		theme:    GetTheme(opts.Theme),
		interval: time.Duration(float64(time.Second) / fps),
		running:  true,
		vectors:  opts.Vectors,
	}, nil
}

// Play runs the player full screen until the user quits.
func Play(p Player) error {
	_, err := tea.NewProgram(p, tea.WithAltScreen()).Run()
	return err
}

func (p Player) tick() tea.Cmd {
	return tea.Tick(p.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (p Player) Init() tea.Cmd {
	return p.tick()
}

func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return p, tea.Quit
		case " ", "space":
			p.running = !p.running
			if p.running && p.frame >= p.traj.Frames()-1 {
				p.frame = 0
			}
		case "r":
			p.frame = 0
			p.running = true
		case "left", "h":
			p.seek(-1)
		case "right", "l":
			p.seek(1)
		case "[":
			p.seek(-p.framesPerSecond())
		case "]":
			p.seek(p.framesPerSecond())
		case "v":
			p.vectors = !p.vectors
		case "t":
			p.theme = p.theme.Next()
		case "+", "=":
			p.view = p.view.Zoom(1.25)
		case "-", "_":
			p.view = p.view.Zoom(0.8)
		case "f":
			p.view = Fit(p.traj.Frame(p.frame), canvasWidth*2, canvasHeight*4)
		case "?":
			p.showHelp = !p.showHelp
		}
	case TickMsg:
		if p.running {
			p.advance()
		}
		return p, p.tick()
	}
	return p, nil
}

// advance moves one frame forward and stops on the last frame.
func (p *Player) advance() {
	if p.frame < p.traj.Frames()-1 {
		p.frame++
	}
	if p.frame == p.traj.Frames()-1 {
		p.running = false
	}
}

// seek pauses and moves by delta frames, clamped to the trajectory.
func (p *Player) seek(delta int) {
	p.running = false
	p.frame += delta
	if p.frame < 0 {
		p.frame = 0
	}
	if last := p.traj.Frames() - 1; p.frame > last {
		p.frame = last
	}
}

func (p Player) framesPerSecond() int {
	n := int(math.Round(1 / p.traj.FrameDt()))
	if n < 1 {
		n = 1
	}
	return n
}

func (p Player) draw() {
	c := p.canvas
	c.Clear()
	n := p.traj.Bodies()

	for b, trail := range p.tracker.Windows(p.frame) {
		c.Pen(b)
		for i := 1; i < len(trail); i++ {
			x0, y0 := p.view.Project(trail[i-1])
			x1, y1 := p.view.Project(trail[i])
			c.DrawLine(x0, y0, x1, y1)
		}
	}

	if p.vectors {
		u, v := p.traj.Momenta(p.frame)
		c.Pen(n)
		for b := 0; b < n; b++ {
			pos := p.traj.Position(b, p.frame)
			tip := r2.Add(pos, r2.Scale(VectorScale, r2.Vec{X: u[b], Y: v[b]}))
			x0, y0 := p.view.Project(pos)
			x1, y1 := p.view.Project(tip)
			c.DrawLine(x0, y0, x1, y1)
		}
	}

	masses := p.traj.Masses()
	for b := 0; b < n; b++ {
		c.Pen(b)
		x, y := p.view.Project(p.traj.Position(b, p.frame))
		r := int(math.Round(masses[b] / 30 * p.view.Scale))
		c.FillCircle(x, y, max(r, 1))
	}
}

func (p Player) View() string {
	p.draw()
	canvasView := canvasStyle.Render(p.canvas.Render(p.theme.Inks(p.traj.Bodies())))

	var s strings.Builder
	title := p.opts.Title
	if title == "" {
		title = "three-body"
	}
	s.WriteString(Title.Foreground(p.theme.Accent).Render(strings.ToUpper(title)) + "\n")

	status := StatusRunning.Render("PLAYING")
	if !p.running {
		status = StatusPaused.Render("PAUSED")
		if p.frame == p.traj.Frames()-1 {
			status = StatusPaused.Render("END")
		}
	}
	s.WriteString(status + "\n\n")

	last := p.traj.Frames() - 1
	progress := 1.0
	if last > 0 {
		progress = float64(p.frame) / float64(last)
	}
	s.WriteString(Metric("Time", fmt.Sprintf("%.2f", p.traj.Time(p.frame))) + "\n")
	s.WriteString(Metric("Frame", fmt.Sprintf("%d/%d", p.frame+1, p.traj.Frames())) + "\n")
	s.WriteString(ProgressBar(progress, 30) + "\n")

	e0, e := p.energies[0], p.energies[p.frame]
	s.WriteString(Metric("Energy", fmt.Sprintf("%.10f", e)) + "\n")
	if e0 != 0 {
		s.WriteString(Metric("Energy drift", fmt.Sprintf("%.2e", math.Abs(e-e0)/math.Abs(e0))) + "\n")
	}

	lo := max(0, p.frame+1-graphSpan)
	if hist := p.energies[lo : p.frame+1]; len(hist) > 1 {
		chart := asciigraph.Plot(hist, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Precision(6), asciigraph.Caption("energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\n")
	masses := p.traj.Masses()
	for b, m := range masses {
		s.WriteString(Swatch(p.theme.BodyColor(b), fmt.Sprintf("body %d  m=%g", b+1, m)) + "\n")
	}

	s.WriteString(KeyHint.Render("\nSP:Pause R:Restart Q:Quit\n←→:Step [ ]:±1s V:Vectors\n+/-:Zoom F:Fit T:Theme ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if p.showHelp {
		return GlassPanel.Render(helpText) + "\n\n" + mainView
	}
	return mainView
}

const helpText = `KEYBOARD SHORTCUTS

Space     Pause/Resume playback
R         Restart from frame 0
Left/H    Previous frame
Right/L   Next frame
[ / ]     Back/forward one second
V         Toggle momentum vectors
+ / -     Zoom in/out
F         Fit view to bodies
T         Cycle themes
Q         Quit
?         Toggle this help`
