// Package voxnet assembles the voxel edit networking core: octal-code
// addressing, jurisdiction-aware batching, and the outbound packet worker.
// Libraries embed the individual packages; applications that want the whole
// stack wired together start here.
package voxnet

import (
	"github.com/linchenxuan/voxnet/config"
	"github.com/linchenxuan/voxnet/jurisdiction"
	"github.com/linchenxuan/voxnet/log"
	"github.com/linchenxuan/voxnet/metrics"
	"github.com/linchenxuan/voxnet/network/editsender"
	"github.com/linchenxuan/voxnet/network/nodelist"
	"github.com/linchenxuan/voxnet/network/outbound"
	"github.com/linchenxuan/voxnet/network/packet"
)

// VoxNet holds the assembled components. The producer feeds EditSender; the
// membership and jurisdiction views are updated by whatever subscribes to the
// domain server's broadcasts.
type VoxNet struct {
	Logger        *log.CoreLogger
	Nodes         *nodelist.List
	Jurisdictions *jurisdiction.Store
	Outbound      *outbound.Sender
	EditSender    *editsender.EditPacketSender

	reporter *metrics.PrometheusReporter
}

// New wires a full stack from cfg; a nil cfg uses config.Default. The
// outbound worker's drain goroutine is started; the caller drives the edit
// sender's Process tick from its producer loop.
func New(cfg *config.Config) (*VoxNet, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := log.Initialize(&cfg.Log); err != nil {
		return nil, err
	}

	var reporter *metrics.PrometheusReporter
	if cfg.Metrics.ListenAddr != "" {
		reporter = metrics.NewPrometheusReporter(cfg.Metrics)
		reporter.Start()
		metrics.SetMetricsReporters([]metrics.Reporter{reporter})
	}

	out, err := outbound.NewUDPSender(cfg.Outbound)
	if err != nil {
		return nil, err
	}

	nodes := nodelist.NewList(pingVia(out))
	jurisdictions := jurisdiction.NewStore()

	sender, err := editsender.New(cfg.Sender, nodes, jurisdictions, out)
	if err != nil {
		return nil, err
	}

	out.Start()
	log.Info().Msg("voxnet stack initialized")

	return &VoxNet{
		Logger:        log.DefaultLogger(),
		Nodes:         nodes,
		Jurisdictions: jurisdictions,
		Outbound:      out,
		EditSender:    sender,
		reporter:      reporter,
	}, nil
}

// pingVia returns the node pinger: an empty ping packet to the node's
// advertised socket, so a reply can activate it.
func pingVia(out *outbound.Sender) nodelist.Pinger {
	return func(n *nodelist.Node) {
		addr := n.PublicSocket()
		if addr == nil {
			return
		}
		var buf [2]byte
		packet.WriteHeader(buf[:], packet.TypePing)
		out.QueuePacketForSending(addr, buf[:])
	}
}

// Stop quiesces the edit sender, flushes the outbound queue, and shuts the
// ancillary services down.
func (v *VoxNet) Stop() {
	v.EditSender.SetShouldSend(false)
	v.Outbound.Stop()
	if v.reporter != nil {
		v.reporter.Stop()
	}
	log.Info().Msg("voxnet stack shut down")
	log.Close()
}
