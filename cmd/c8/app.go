package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/gl/v4.2-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/c8/arch"
	"github.com/hexaflex/c8/clock"
	"github.com/hexaflex/c8/devices"
	"github.com/hexaflex/c8/devices/beeper"
	"github.com/hexaflex/c8/devices/display"
	"github.com/hexaflex/c8/devices/keypad"
	"github.com/hexaflex/c8/devices/wavrec"
)

// App defines application context.
type App struct {
	logger       *log.Logger
	config       *Config         // Application configuration.
	window       *glfw.Window    // OpenGL/GLFW context.
	ctrl         *Controller     // Machine with program to be run.
	display      *display.Device // Display peripheral.
	keypad       *keypad.Device  // Keyboard and gamepad input.
	devices      devices.Map     // All connected peripherals.
	titleUpdated time.Time       // Value used to periodically update window title.
	lastFrame    time.Time       // Last time the machine was advanced.
}

// NewApp creates a new application instance using the given configuration.
func NewApp(logger *log.Logger, config *Config) *App {
	return &App{
		logger:  logger,
		config:  config,
		display: display.New(),
	}
}

// Run runs the application and does not return until it is finished
// or an error occurred during initialization.
func (a *App) Run() error {
	var err error

	a.ctrl, err = NewController(a.logger, a.config, a.trace)
	if err != nil {
		return err
	}

	if err = a.ctrl.Load(); err != nil {
		return err
	}

	if err = a.initGL(); err != nil {
		return err
	}

	defer a.dispose()

	a.keypad = keypad.New(a.logger, a.window)
	a.devices.Connect(a.display)
	a.devices.Connect(a.keypad)

	if !a.config.Mute {
		a.devices.Connect(beeper.New())
	}

	if a.config.WavFile != "" {
		a.devices.Connect(wavrec.New(a.config.WavFile))
	}

	if err = a.devices.Startup(a.logger, a.ctrl.SetKey); err != nil {
		return err
	}

	a.logger.Info(Version())
	startStatsView(a.logger, a.config.StatsView)
	a.printHelp()

	if !a.config.Debug {
		a.ctrl.Start()
	}

	a.lastFrame = time.Now()

	for !a.window.ShouldClose() {
		a.mainLoop()
	}

	return nil
}

// mainLoop performs all main loop operations.
func (a *App) mainLoop() {
	glfw.PollEvents()

	elapsed := time.Since(a.lastFrame)
	if elapsed < clock.TickPeriod {
		time.Sleep(time.Millisecond)
		return
	}

	a.lastFrame = time.Now()
	if elapsed > clock.MaxElapsed {
		elapsed = clock.MaxElapsed
	}

	if _, err := a.ctrl.Advance(elapsed); err != nil {
		a.logger.Error("Execution stopped", log.Err(err))
	}

	state := a.ctrl.State()
	a.devices.Update(&state)

	gl.Clear(gl.COLOR_BUFFER_BIT)
	a.display.Draw()
	a.window.SwapBuffers()

	// Periodically update the window title to show the current instruction rate.
	if time.Since(a.titleUpdated) >= time.Second*2 {
		a.titleUpdated = time.Now()
		a.window.SetTitle(a.title())
	}
}

func (a *App) title() string {
	if !a.ctrl.Running() {
		return fmt.Sprintf("%s %s - paused", AppName, version)
	}
	return fmt.Sprintf("%s %s - %s", AppName, version, prettyFrequency(a.ctrl.Frequency()))
}

// dispose ensures openGL/GLFW and other resources are cleaned up.
func (a *App) dispose() {
	a.ctrl.Stop()

	if err := a.devices.Shutdown(a.logger); err != nil {
		a.logger.Error("Device shutdown failed", log.Err(err))
	}

	if err := writeMemViz(a.config.MemViz, a.ctrl.Machine()); err != nil {
		a.logger.Error("Writing memory graph failed", log.Err(err))
	}

	if a.window != nil {
		a.window.Destroy()
		a.window = nil
	}

	glfw.Terminate()
}

func (a *App) keyCallback(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	var err error

	switch key {
	case glfw.KeyEscape:
		a.window.SetShouldClose(true)
	case glfw.KeyF1:
		a.printHelp()
	case glfw.KeyF2:
		a.config.Debug = !a.config.Debug
		a.logger.Info("Debug mode", log.String("enabled", onOff(a.config.Debug)))
	case glfw.KeyF5:
		err = a.reload()
	case glfw.KeyF6:
		a.ctrl.ToggleRun()
		a.window.SetTitle(a.title())
	case glfw.KeyF7:
		if !a.ctrl.Running() {
			err = a.ctrl.Step()
		}
	case glfw.KeyF8:
		a.config.PrintTrace = !a.config.PrintTrace
	}

	if err != nil {
		a.logger.Error("Command failed", log.Err(err))
	}
}

// reload loads the program from disk again and restarts it.
func (a *App) reload() error {
	running := a.ctrl.Running()
	a.ctrl.Stop()

	if err := a.ctrl.Load(); err != nil {
		return err
	}

	if running || !a.config.Debug {
		a.ctrl.Start()
	}
	return nil
}

// trace prints instruction trace data. This can be toggled on and off
// through a.config.PrintTrace.
func (a *App) trace(pc uint16, instr arch.Instruction) {
	if a.config.PrintTrace {
		printTrace(pc, instr)
	}
}

// initGL initializes GLFW and openGL.
func (a *App) initGL() error {
	err := glfw.Init()
	if err != nil {
		return errors.Wrapf(err, "glfw.Init failed")
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.True)
	glfw.WindowHint(glfw.Focused, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 2)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var monitor *glfw.Monitor

	width := arch.DisplayWidth * a.config.ScaleFactor
	height := arch.DisplayHeight * a.config.ScaleFactor

	if a.config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()

		width = mode.Width
		height = mode.Height

		glfw.WindowHint(glfw.Decorated, glfw.False)
		glfw.WindowHint(glfw.Maximized, glfw.True)
	} else {
		glfw.WindowHint(glfw.Decorated, glfw.True)
		glfw.WindowHint(glfw.Maximized, glfw.False)
	}

	a.window, err = glfw.CreateWindow(width, height, a.title(), monitor, nil)
	if err != nil {
		glfw.Terminate()
		return errors.Wrapf(err, "glfw.CreateWindow failed")
	}

	a.window.MakeContextCurrent()
	a.window.SetKeyCallback(a.keyCallback)
	a.window.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if a.keypad != nil {
			a.keypad.SetEnabled(focused)
		}
	})

	glfw.SwapInterval(0)

	if err = gl.Init(); err != nil {
		a.window.Destroy()
		a.window = nil
		glfw.Terminate()
		return errors.Wrapf(err, "gl.Init failed")
	}

	gl.ClearColor(0, 0, 0, 1.0)
	return nil
}

// printHelp writes a short overview of supported shortcut keys.
func (a *App) printHelp() {
	var sb strings.Builder
	sb.WriteString("shortcut keys:\n")
	sb.WriteString(" 1234     Keypad 123C\n")
	sb.WriteString(" QWER     Keypad 456D\n")
	sb.WriteString(" ASDF     Keypad 789E\n")
	sb.WriteString(" ZXCV     Keypad A0BF\n")
	sb.WriteString(" ESC      Exit the program.\n")
	sb.WriteString(" F1       Display this help.\n")
	sb.WriteString(" F2       Enable/Disable debug mode and breakpoints.\n")
	sb.WriteString(" F5       (re)load the program from disk and reset the machine.\n")
	sb.WriteString(" F6       Start/Stop program execution.\n")
	sb.WriteString(" F7       Perform a single execution step while stopped.\n")
	sb.WriteString(" F8       Enable/Disable instruction trace output.")
	a.logger.Info(sb.String())
}

// prettyFrequency returns a human-readable version of the given clock frequency in herz.
func prettyFrequency(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2f GHz", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2f MHz", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2f KHz", v/1e3)
	default:
		return fmt.Sprintf("%.2f Hz", v)
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
