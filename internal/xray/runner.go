package xray

import (
	"encoding/json"
	"fmt"
	"net"
	"os"

	"confcollect/internal/link"
	"confcollect/internal/logger"

	"github.com/xtls/xray-core/core"
	"github.com/xtls/xray-core/infra/conf"

	// Registers all protocols and transports with the core.
	_ "github.com/xtls/xray-core/main/distro/all"
)

// StartEphemeral spins up Xray on a random free port for a single link.
func StartEphemeral(raw string) (int, *core.Instance, error) {
	portMap, instance, err := StartBatch([]string{raw})
	if err != nil {
		return 0, nil, err
	}
	return portMap[raw], instance, nil
}

// StartBatch starts one Xray instance hosting many proxies, each behind
// its own local socks inbound on a random free port. Links that fail to
// parse or build are skipped, not fatal. The returned map only contains
// links that made it into the instance.
func StartBatch(raws []string) (map[string]int, *core.Instance, error) {
	if len(raws) == 0 {
		return nil, nil, fmt.Errorf("no links provided")
	}
	ports, err := GetFreePorts(len(raws))
	if err != nil {
		return nil, nil, err
	}
	return StartOnPorts(raws, ports)
}

// StartOnPorts is StartBatch with a caller-supplied port pool, so a
// checker iterating over many batches can reuse the same local ports.
// len(raws) must not exceed len(ports).
func StartOnPorts(raws []string, ports []int) (portMap map[string]int, instance *core.Instance, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorf("CRITICAL: Xray core panic recovered: %v", r)
			err = fmt.Errorf("xray core panic: %v", r)
			if instance != nil {
				instance.Close()
				instance = nil
			}
		}
	}()

	if len(raws) > len(ports) {
		return nil, nil, fmt.Errorf("not enough ports provided: have %d, need %d", len(ports), len(raws))
	}

	var inbounds []conf.InboundDetourConfig
	var outbounds []conf.OutboundDetourConfig
	var rules []json.RawMessage

	portMap = make(map[string]int)
	validIndex := 0

	for _, raw := range raws {
		c, err := link.ParseLink(raw)
		if err != nil {
			logger.Log.Debugf("Skipping unparsable link: %v", err)
			continue
		}
		outConfig, err := ToOutbound(c)
		if err != nil {
			logger.Log.Debugf("Skipping unconvertible link: %v", err)
			continue
		}

		var buildErr error
		func() {
			restore := muteLogs()
			defer restore()
			_, buildErr = outConfig.Build()
		}()
		if buildErr != nil {
			continue
		}

		if validIndex >= len(ports) {
			break
		}
		port := ports[validIndex]
		tagIn := fmt.Sprintf("in_%d", validIndex)
		tagOut := fmt.Sprintf("out_%d", validIndex)

		outConfig.Tag = tagOut
		outbounds = append(outbounds, *outConfig)

		inbounds = append(inbounds, conf.InboundDetourConfig{
			Tag:      tagIn,
			Protocol: "socks",
			PortList: &conf.PortList{Range: []conf.PortRange{{From: uint32(port), To: uint32(port)}}},
			Settings: toRawMessagePtr(`{"auth": "noauth", "udp": true}`),
			ListenOn: toAddress("127.0.0.1"),
		})

		ruleJSON, _ := json.Marshal(map[string]interface{}{
			"type":        "field",
			"inboundTag":  []string{tagIn},
			"outboundTag": tagOut,
		})
		rules = append(rules, json.RawMessage(ruleJSON))

		portMap[raw] = port
		validIndex++
	}

	if len(outbounds) == 0 {
		return nil, nil, fmt.Errorf("no valid links in batch")
	}

	pbConfig, err := (&conf.Config{
		LogConfig: &conf.LogConfig{
			LogLevel:  "none",
			AccessLog: "none",
			ErrorLog:  "none",
			DNSLog:    false,
		},
		InboundConfigs:  inbounds,
		OutboundConfigs: outbounds,
		RouterConfig:    &conf.RouterConfig{RuleList: rules},
	}).Build()
	if err != nil {
		return nil, nil, err
	}

	instance, err = core.New(pbConfig)
	if err != nil {
		return nil, nil, err
	}
	if err := instance.Start(); err != nil {
		return nil, nil, err
	}

	return portMap, instance, nil
}

// GetFreePorts reserves count local TCP ports and releases them again.
// A small race with other processes is accepted.
func GetFreePorts(count int) ([]int, error) {
	var listeners []net.Listener
	var ports []int

	for i := 0; i < count; i++ {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			for _, l := range listeners {
				l.Close()
			}
			return nil, fmt.Errorf("failed to allocate ports: %w", err)
		}
		listeners = append(listeners, l)
		ports = append(ports, l.Addr().(*net.TCPAddr).Port)
	}
	for _, l := range listeners {
		l.Close()
	}
	return ports, nil
}

func toAddress(s string) *conf.Address {
	var addr conf.Address
	_ = json.Unmarshal([]byte(fmt.Sprintf("%q", s)), &addr)
	return &addr
}

// muteLogs silences the core's direct writes to stdout/stderr while a
// config is being built.
func muteLogs() func() {
	origStdout := os.Stdout
	origStderr := os.Stderr

	devNull, _ := os.Open(os.DevNull)
	if devNull != nil {
		os.Stdout = devNull
		os.Stderr = devNull
	}

	return func() {
		os.Stdout = origStdout
		os.Stderr = origStderr
		if devNull != nil {
			devNull.Close()
		}
	}
}
