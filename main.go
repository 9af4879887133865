package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cbuild/internal/design"
	"cbuild/internal/editor"
	"cbuild/internal/geometry"
	"cbuild/internal/render"
	"cbuild/internal/storage"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	Version = "dev"

	configPath  string
	dataDir     string
	storageKind string
	saveDir     string
	startPrev   bool
)

var rootCmd = &cobra.Command{
	Use:   "cbuild",
	Short: "A terminal WYSIWYG builder for page components",
	Long: `cbuild lays out page components (text, headings, images, buttons,
containers and more) on a fixed-size canvas. Elements snap to a 10px grid
while you drag them in design mode; preview mode shows the result read-only.

The design is saved automatically after every change and restored on the
next start.

Examples:
  cbuild                        # open the editor
  cbuild --storage sqlite       # keep the design in a sqlite database
  cbuild export design.json     # write the stored design to a file
  cbuild import design.json     # replace the stored design from a file
  cbuild render design.png      # render the stored design as a PNG
  cbuild clear                  # forget the stored design`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the stored design to a JSON file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		path, err := s.outputPath(args, design.ExportFilename(time.Now()))
		if err != nil {
			return err
		}
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := design.Export(file, s.bridge.Load(cmd.Context()), time.Now()); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored design with a JSON export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		snap, err := design.Import(file)
		if err != nil {
			return err
		}
		if err := s.bridge.Save(cmd.Context(), snap); err != nil {
			return fmt.Errorf("save imported design: %w", err)
		}
		s.logger.Info("design imported", "file", args[0], "elements", len(snap.Elements))
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d elements\n", len(snap.Elements))
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render the stored design as a PNG",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		name := strings.TrimSuffix(design.ExportFilename(time.Now()), ".json") + ".png"
		path, err := s.outputPath(args, name)
		if err != nil {
			return err
		}
		r, err := render.New(s.logger)
		if err != nil {
			return err
		}
		if err := r.SavePNG(path, s.bridge.Load(cmd.Context())); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored design",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()
		return s.bridge.Clear(cmd.Context())
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", defaultConfigPath(), "Path to the TOML config file")
	flags.StringVar(&dataDir, "data-dir", "", "Directory for the stored design and log (overrides data_dir)")
	flags.StringVar(&storageKind, "storage", "", "Storage backend: file, sqlite or memory (overrides storage)")
	flags.StringVar(&saveDir, "save-dir", "", "Directory for exports (overrides save_directory)")
	rootCmd.Flags().BoolVar(&startPrev, "preview", false, "Start in preview mode")

	rootCmd.AddCommand(exportCmd, importCmd, renderCmd, clearCmd)
	rootCmd.Version = Version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session is the shared setup of every command: config, log file and the
// storage bridge.
type session struct {
	config  *Config
	logger  *slog.Logger
	logFile io.Closer
	bridge  *storage.Bridge
}

func openSession(cmd *cobra.Command) (*session, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, config); err != nil {
		return nil, err
	}

	logger, logFile, err := setupLogger(config)
	if err != nil {
		return nil, err
	}

	kv, err := storage.Open(config.Storage, config.DataDir, logger)
	if err != nil {
		logFile.Close()
		return nil, err
	}
	bridge := storage.NewBridge(kv,
		storage.WithLogger(logger),
		storage.WithDefaultCanvas(config.CanvasSize()),
	)
	logger.Debug("session opened", "storage", config.Storage, "data_dir", config.DataDir)
	return &session{config: config, logger: logger, logFile: logFile, bridge: bridge}, nil
}

func (s *session) close() {
	if err := s.bridge.Close(); err != nil {
		s.logger.Error("close storage", "error", err)
	}
	s.logFile.Close()
}

// outputPath is args[0] when given, otherwise name in the save directory.
func (s *session) outputPath(args []string, name string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return s.config.GetSavePath(name)
}

func applyFlags(cmd *cobra.Command, config *Config) error {
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		config.DataDir = dataDir
	}
	if flags.Changed("storage") {
		config.Storage = storageKind
	}
	if flags.Changed("save-dir") {
		config.SaveDirectory = saveDir
	}
	if flags.Changed("preview") {
		config.StartInPreview = startPrev
	}
	return config.normalize()
}

// setupLogger sends logs to <data_dir>/cbuild.log; the terminal belongs to
// the UI.
func setupLogger(config *Config) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(config.DataDir, "cbuild.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: config.Level()}))
	slog.SetDefault(logger)
	return logger, f, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	snap := s.bridge.Load(cmd.Context())
	store := editor.New(snap,
		editor.WithPersister(s.bridge),
		editor.WithLogger(s.logger),
		editor.WithHistoryLimit(s.config.HistoryLimit),
	)
	if s.config.StartInPreview {
		store.SetMode(geometry.ModePreview)
	}

	renderer, err := render.New(s.logger)
	if err != nil {
		s.logger.Warn("png export unavailable", "error", err)
	}

	p := tea.NewProgram(
		initialModel(store, s.config, renderer, s.logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	s.logger.Info("session ended", "elements", store.Len())
	return nil
}

func initialModel(store *editor.Store, config *Config, renderer *render.Renderer, logger *slog.Logger) model {
	input := textinput.New()
	input.CharLimit = 2000
	input.Prompt = ""

	return model{
		store:    store,
		config:   config,
		renderer: renderer,
		logger:   logger,
		clip:     systemClipboard{},
		now:      time.Now,
		keys:     newKeyMap(),
		help:     help.New(),
		mode:     ModeNormal,
		input:    input,
	}
}
