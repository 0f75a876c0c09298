package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/yourusername/yt-audio-go/internal/app"
	"github.com/yourusername/yt-audio-go/internal/domain"
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Inspect or bypass the daily download limit",
}

var gateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's download count and gate status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(c *app.Container) error {
			printGate(os.Stdout, c.Gate.Snapshot())
			return nil
		})
	},
}

var gateBypassCmd = &cobra.Command{
	Use:       "bypass [on|off]",
	Short:     "Turn the daily limit bypass on or off",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		enabled, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		return withContainer(func(c *app.Container) error {
			if err := c.Gate.SetBypass(enabled); err != nil {
				return err
			}
			printGate(os.Stdout, c.Gate.Snapshot())
			return nil
		})
	},
}

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Manage the download proxy",
}

var proxyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configured proxy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(c *app.Container) error {
			printProxy(os.Stdout, c.Settings.LoadProxyConfig())
			return nil
		})
	},
}

var proxySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the download proxy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		proxyType, _ := cmd.Flags().GetString("type")
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetUint16("port")
		user, _ := cmd.Flags().GetString("user")
		pass, _ := cmd.Flags().GetString("pass")

		cfg := domain.ProxyConfig{ProxyType: domain.ProxyType(proxyType), Host: host, Port: port}
		if user != "" || pass != "" {
			cfg.Auth = &domain.ProxyAuth{Username: user, Password: pass}
		}

		return withContainer(func(c *app.Container) error {
			if err := c.Settings.SaveProxyConfig(cfg); err != nil {
				return err
			}
			printProxy(os.Stdout, c.Settings.LoadProxyConfig())
			return nil
		})
	},
}

var proxyImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Parse a proxy list file and print the entries",
	Long:  `Parse a proxy list (one host:port, user:pass@host:port or socks5://... per line). Use --apply to save the first entry.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		apply, _ := cmd.Flags().GetBool("apply")
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		return withContainer(func(c *app.Container) error {
			proxies := c.Settings.ImportProxies(string(data))
			printProxyList(os.Stdout, proxies)
			if apply && len(proxies) > 0 {
				if err := c.Settings.SaveProxyConfig(proxies[0]); err != nil {
					return err
				}
				fmt.Println(okStyle.Render("Saved " + proxies[0].Redacted()))
			}
			return nil
		})
	},
}

var antiBanCmd = &cobra.Command{
	Use:   "antiban",
	Short: "Manage user-agent rotation and request delays",
}

var antiBanShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show anti-ban settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(c *app.Container) error {
			printAntiBan(os.Stdout, c.Settings.LoadAntiBanConfig())
			return nil
		})
	},
}

var antiBanSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change anti-ban settings; unset flags keep their current value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(c *app.Container) error {
			cfg := c.Settings.LoadAntiBanConfig()
			flags := cmd.Flags()
			if flags.Changed("rotate-ua") {
				cfg.RotateUserAgent, _ = flags.GetBool("rotate-ua")
			}
			if flags.Changed("delays") {
				cfg.EnableDelays, _ = flags.GetBool("delays")
			}
			if flags.Changed("min-delay") {
				cfg.MinDelaySecs, _ = flags.GetUint32("min-delay")
			}
			if flags.Changed("max-delay") {
				cfg.MaxDelaySecs, _ = flags.GetUint32("max-delay")
			}

			if err := c.Settings.SaveAntiBanConfig(cfg); err != nil {
				return err
			}
			printAntiBan(os.Stdout, cfg)
			return nil
		})
	},
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show or change the download directory",
}

var pathShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the download directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(c *app.Container) error {
			fmt.Println(c.Settings.ResolveDownloadDir())
			return nil
		})
	},
}

var pathSetCmd = &cobra.Command{
	Use:   "set [dir]",
	Short: "Set the download directory (must exist)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(c *app.Container) error {
			if err := c.Settings.SetDownloadPath(args[0]); err != nil {
				return err
			}
			fmt.Println(c.Settings.ResolveDownloadDir())
			return nil
		})
	},
}

func init() {
	gateCmd.AddCommand(gateStatusCmd, gateBypassCmd)

	proxySetCmd.Flags().String("type", string(domain.ProxyHTTP), "Proxy type (none, http, socks5)")
	proxySetCmd.Flags().String("host", "", "Proxy host")
	proxySetCmd.Flags().Uint16("port", 0, "Proxy port")
	proxySetCmd.Flags().String("user", "", "Proxy username")
	proxySetCmd.Flags().String("pass", "", "Proxy password")
	proxyImportCmd.Flags().Bool("apply", false, "Save the first parsed proxy")
	proxyCmd.AddCommand(proxyShowCmd, proxySetCmd, proxyImportCmd)

	antiBanSetCmd.Flags().Bool("rotate-ua", true, "Rotate the User-Agent per download")
	antiBanSetCmd.Flags().Bool("delays", true, "Sleep a random delay before each download")
	antiBanSetCmd.Flags().Uint32("min-delay", 1, "Minimum delay in seconds")
	antiBanSetCmd.Flags().Uint32("max-delay", 5, "Maximum delay in seconds")
	antiBanCmd.AddCommand(antiBanShowCmd, antiBanSetCmd)

	pathCmd.AddCommand(pathShowCmd, pathSetCmd)
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}

func printGate(w io.Writer, snap domain.GateSnapshot) {
	style := okStyle
	switch snap.Status {
	case domain.GateWarning:
		style = warnStyle
	case domain.GateLocked:
		style = errorStyle
	}

	fmt.Fprintln(w, labelStyle.Render("Safety Gate:"))
	printField(w, "Status", style.Render(string(snap.Status)))
	printField(w, "Today", fmt.Sprintf("%d/%d (warning at %d)", snap.Count, snap.DailyLimit, snap.WarningThreshold))
	printField(w, "Date", snap.Date)
	printField(w, "Bypass", snap.BypassEnabled)
}

func printProxy(w io.Writer, cfg domain.ProxyConfig) {
	fmt.Fprintln(w, labelStyle.Render("Proxy:"))
	if !cfg.IsEnabled() {
		printField(w, "Type", "none (direct connection)")
		return
	}
	printField(w, "Type", cfg.ProxyType)
	printField(w, "Address", cfg.Address())
	printField(w, "URL", cfg.Redacted())
}

func printProxyList(w io.Writer, proxies []domain.ProxyConfig) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTYPE\tADDRESS\tAUTH")
	for i, p := range proxies {
		auth := "-"
		if p.Auth != nil {
			auth = p.Auth.Username
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, p.ProxyType, p.Address(), auth)
	}
	tw.Flush()
	fmt.Fprintf(w, "%d proxies parsed\n", len(proxies))
}

func printAntiBan(w io.Writer, cfg domain.AntiBanConfig) {
	fmt.Fprintln(w, labelStyle.Render("Anti-Ban:"))
	printField(w, "Rotate UA", cfg.RotateUserAgent)
	printField(w, "Delays", cfg.EnableDelays)
	printField(w, "Window", fmt.Sprintf("%d-%ds", cfg.MinDelaySecs, cfg.MaxDelaySecs))
}
