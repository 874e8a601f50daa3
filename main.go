package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"betterrest/internal/bedtime"
	"betterrest/internal/config"
	"betterrest/internal/form"
	"betterrest/internal/notify"
	"betterrest/internal/predictor"
)

const appVersion = "0.2.0"

func main() {
	cfg := config.Load()

	var (
		wakeStr   string
		sleepH    float64
		coffee    int
		modelPath string
		port      int

		mqttBroker string
		mqttTopic  string
	)

	cmd := &cobra.Command{
		Use:   "betterrest",
		Short: "Ideal bedtime calculator (CLI or web)",
		Long: `betterrest estimates when to go to bed from the time you want to wake up,
how much sleep you would like and how much coffee you drink a day.

The estimate comes from a regression model stored as JSON
(see "betterrest sample-model").`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ok, _ := cmd.Flags().GetBool("version"); ok {
				fmt.Printf("betterrest v%s\n", appVersion)
				return nil
			}

			pub := newPublisher(mqttBroker, cfg.MQTTClientID, mqttTopic)
			defer pub.Close()

			a := &app{
				predictor: predictor.NewLazy(modelPath),
				publisher: pub,
				now:       time.Now,
			}

			if port > 0 {
				printListenAddrs(port)
				return serveWeb(port, a)
			}

			h, m, err := parseHHMM(wakeStr)
			if err != nil {
				return fmt.Errorf("invalid --wake: %w", err)
			}

			st, res := a.calculate(h, m, sleepH, coffee)
			printCLI(st, res)
			if !res.OK() {
				return errCalculation
			}
			return nil
		},
	}

	cmd.Version = appVersion
	cmd.SetVersionTemplate("betterrest v{{.Version}}\n")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.Flags().StringVar(&wakeStr, "wake", "07:00", "Wake-up time HH:MM")
	cmd.Flags().Float64Var(&sleepH, "sleep", form.DefaultSleep, "Desired amount of sleep in hours (4-12, step 0.25)")
	cmd.Flags().IntVar(&coffee, "coffee", form.DefaultCoffee, "Cups of coffee per day (1-20)")
	cmd.Flags().StringVar(&modelPath, "model", cfg.ModelPath, "Path to the sleep model JSON")

	cmd.Flags().IntVar(&port, "port", cfg.Port, "Run web UI on this port (e.g. 8484)")

	cmd.Flags().StringVar(&mqttBroker, "mqtt-broker", cfg.MQTTBroker, "Publish results to this MQTT broker (empty disables)")
	cmd.Flags().StringVar(&mqttTopic, "mqtt-topic", cfg.MQTTTopic, "MQTT topic for results")

	cmd.AddCommand(newSampleModelCmd())

	if err := cmd.Execute(); err != nil {
		if err != errCalculation {
			slog.Error(err.Error())
		}
		os.Exit(1)
	}
}

func newSampleModelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample-model [path]",
		Short: "Write a sample sleep model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultModelPath
			if len(args) > 0 {
				path = args[0]
			}
			if err := predictor.WriteSample(path); err != nil {
				return err
			}
			fmt.Printf("Wrote sample model to %s\n", path)
			return nil
		},
	}
}

func newPublisher(broker, clientID, topic string) notify.Publisher {
	if strings.TrimSpace(broker) == "" {
		return notify.Nop{}
	}
	pub, err := notify.NewMQTTPublisher(broker, clientID, topic)
	if err != nil {
		slog.Warn("mqtt disabled", "broker", broker, "err", err)
		return notify.Nop{}
	}
	slog.Info("publishing results", "broker", broker, "topic", topic)
	return pub
}

func printCLI(st *form.State, res form.Result) {
	fmt.Printf("Wake up:      %s\n", bedtime.FormatClock(st.WakeUp()))
	fmt.Printf("Sleep:        %s\n", st.SleepLabel())
	fmt.Printf("Coffee:       %s\n\n", st.CoffeeLabel())

	if !res.OK() {
		fmt.Printf("%s: %s\n", st.Alert.Title, st.Alert.Message)
		return
	}
	fmt.Printf("%s %s%s\n", st.Alert.Title, st.Alert.Message, dayNote(res))
}

// dayNote marks bedtimes that fall on the day before the wake time.
func dayNote(res form.Result) string {
	if bedtime.DayOffset(res.Wake, res.Bedtime) < 0 {
		return " (the evening before)"
	}
	return ""
}

/* ---------------- helpers ---------------- */

func parseHHMM(s string) (int, int, error) {
	t := strings.TrimSpace(s)
	parts := strings.Split(t, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return h, m, nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

func printListenAddrs(port int) {
	fmt.Println("Listening on:")
	fmt.Printf("  http://127.0.0.1:%d/\n", port)

	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			ip, _, err := net.ParseCIDR(a.String())
			if err != nil || ip == nil || ip.IsLoopback() || ip.To4() == nil {
				continue
			}
			fmt.Printf("  http://%s:%d/\n", ip.String(), port)
		}
	}
	fmt.Println()
}
