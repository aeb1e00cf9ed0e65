package server

import (
	"fmt"

	capi "github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"
)

// agent is the slice of the consul agent API the registrar uses.
type agent interface {
	ServiceRegister(*capi.AgentServiceRegistration) error
	ServiceDeregister(string) error
}

type RegisterServer struct {
	ServiceID   string
	ServiceName string
	Addr        string
	Port        int
	agent       agent
	log         zerolog.Logger
}

// NewRegisterServer creates a consul registrar. An empty consulAddr keeps
// the client defaults (CONSUL_HTTP_ADDR or 127.0.0.1:8500).
func NewRegisterServer(consulAddr, serviceID, serviceName, addr string, port int, log zerolog.Logger) (*RegisterServer, error) {
	config := capi.DefaultConfig()
	if consulAddr != "" {
		config.Address = consulAddr
	}
	client, err := capi.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}
	return &RegisterServer{
		ServiceID:   serviceID,
		ServiceName: serviceName,
		Addr:        addr,
		Port:        port,
		agent:       client.Agent(),
		log:         log,
	}, nil
}

func (r *RegisterServer) registration() *capi.AgentServiceRegistration {
	return &capi.AgentServiceRegistration{
		ID:      r.ServiceID,
		Name:    r.ServiceName,
		Address: r.Addr,
		Port:    r.Port,
		Check: &capi.AgentServiceCheck{
			GRPC:                           fmt.Sprintf("%s:%d/%s", r.Addr, r.Port, r.ServiceName),
			Interval:                       "10s",
			Timeout:                        "1s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
}

func (r *RegisterServer) Run() error {
	if err := r.agent.ServiceRegister(r.registration()); err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}
	r.log.Info().Str("service_id", r.ServiceID).Msg("registered in consul")
	return nil
}

func (r *RegisterServer) End() {
	if err := r.agent.ServiceDeregister(r.ServiceID); err != nil {
		r.log.Warn().Err(err).Str("service_id", r.ServiceID).Msg("failed to deregister")
		return
	}
	r.log.Info().Str("service_id", r.ServiceID).Msg("deregistered from consul")
}
