package app

import (
	"go.uber.org/fx"

	applicationport "github.com/opamp-commander/opamp-commander/internal/application/port"
	"github.com/opamp-commander/opamp-commander/internal/application/service/configrequestsweeper"
	opampservice "github.com/opamp-commander/opamp-commander/internal/application/service/opamp"
	"github.com/opamp-commander/opamp-commander/internal/application/service/operator"
	"github.com/opamp-commander/opamp-commander/internal/domain/port"
	domainservice "github.com/opamp-commander/opamp-commander/internal/domain/service"
	"github.com/opamp-commander/opamp-commander/internal/domain/service/auth"
	"github.com/opamp-commander/opamp-commander/internal/domain/service/configrequest"
	"github.com/opamp-commander/opamp-commander/internal/domain/service/rollout"

	"github.com/opamp-commander/opamp-commander/internal/adapter/in/http/v1/agent"
	"github.com/opamp-commander/opamp-commander/internal/adapter/in/http/v1/deployment"
	opampadapter "github.com/opamp-commander/opamp-commander/internal/adapter/in/http/v1/opamp"
	"github.com/opamp-commander/opamp-commander/internal/adapter/in/http/v1/ping"
	"github.com/opamp-commander/opamp-commander/internal/adapter/in/http/v1/registration"
	"github.com/opamp-commander/opamp-commander/internal/adapter/in/http/v1/version"

	"github.com/opamp-commander/opamp-commander/internal/adapter/out/persistence/sql"
	"github.com/opamp-commander/opamp-commander/internal/observability"

	"github.com/opamp-commander/opamp-commander/pkg/app/config"
)

// NewConfigModule provides the settings sub-structs each downstream
// constructor takes, lifted from the single ServerSettings value assembled
// by pkg/cmd/apiserver.
func NewConfigModule(settings *config.ServerSettings) fx.Option {
	return fx.Module("config",
		fx.Provide(
			ValueFunc(settings),
			ValueFunc(settings.Database),
			ValueFunc(settings.Observability),
			ValueFunc(settings.OpAMPEndpoint),
		),
	)
}

// NewInPortModule wires the v1 HTTP controllers into the "controllers" group
// NewEngine consumes, plus the HTTP server and Gin engine themselves. The
// /healthz and /readyz HealthController is not wired here.
func NewInPortModule() fx.Option {
	return fx.Module("inport",
		fx.Provide(
			NewHTTPServer,
			fx.Annotate(NewEngine, fx.ParamTags(`group:"controllers"`, "", "")),
			observability.New,

			AsController(ping.NewController),
			AsController(version.NewController),
			AsController(agent.NewController),
			AsController(deployment.NewController),
			AsController(registration.NewController),
			AsController(opampadapter.NewController),
			fx.Annotate(
				Identity[*opampservice.Engine],
				fx.As(new(opampadapter.Engine)),
			),
		),
	)
}

// NewApplicationServiceModule wires the operator API projection, the
// protocol engine, and the config-request expiry sweeper (the sole member of
// the "runners" background-work group).
func NewApplicationServiceModule() fx.Option {
	return fx.Module("applicationservice",
		fx.Provide(
			opampservice.New,
			fx.Annotate(
				operator.New,
				fx.As(new(applicationport.OperatorUsecase)),
			),
			configrequestsweeper.New,
			AsRunner(Identity[*configrequestsweeper.Runner]),
		),
	)
}

// NewDomainServiceModule wires the agent, connection, deployment,
// config-request, and auth domain use cases behind their respective port
// interfaces.
func NewDomainServiceModule() fx.Option {
	return fx.Module("domainservice",
		fx.Provide(
			fx.Annotate(
				domainservice.NewAgentService,
				fx.As(new(port.AgentUsecase)),
			),
			fx.Annotate(
				domainservice.NewConnectionService,
				fx.As(new(port.ConnectionUsecase)),
			),
			fx.Annotate(
				rollout.New,
				fx.As(new(port.DeploymentUsecase)),
			),
			fx.Annotate(
				configrequest.New,
				fx.As(new(port.ConfigRequestUsecase)),
			),
			fx.Annotate(
				auth.New,
				fx.As(new(port.AuthUsecase)),
			),
		),
	)
}

// NewOutPortModule wires the Postgres-backed persistence adapters behind
// their respective port interfaces, plus the SQL connection pool itself.
func NewOutPortModule() fx.Option {
	return fx.Module("outport",
		fx.Provide(
			NewDatabase,
			fx.Annotate(
				sql.NewAgentAdapter,
				fx.As(new(port.AgentPersistencePort)),
			),
			fx.Annotate(
				sql.NewDeploymentAdapter,
				fx.As(new(port.DeploymentPersistencePort)),
			),
			fx.Annotate(
				sql.NewConfigRequestAdapter,
				fx.As(new(port.ConfigRequestPersistencePort)),
			),
			fx.Annotate(
				sql.NewRegistrationAdapter,
				fx.As(new(port.RegistrationPersistencePort)),
			),
		),
	)
}
