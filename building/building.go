package building

import (
	"buildingsim/common"
	"buildingsim/elevassigner"
	"buildingsim/elevfsm"
	"buildingsim/logger"
)

var Log = logger.GetLogger()

// UnitFactory creates the unit with index id for a building of numFloors.
type UnitFactory func(id, numFloors, capacity int) common.ElevatorUnit

type Option func(*options)

type options struct {
	carConfig common.CarConfig
	factory   UnitFactory
}

// WithCarConfig sets the timing used by the default simulated cars.
func WithCarConfig(cfg common.CarConfig) Option {
	return func(o *options) {
		o.carConfig = cfg
	}
}

// WithUnitFactory replaces the simulated cars with units of the caller's choosing.
func WithUnitFactory(f UnitFactory) Option {
	return func(o *options) {
		o.factory = f
	}
}

// Building owns the cars, the two request queues and the system status.
// It is not safe for concurrent use; callers serialise access.
type Building struct {
	config common.BuildingConfig
	units  []common.ElevatorUnit
	up     common.RequestQueue
	down   common.RequestQueue
	status common.SystemStatus
}

// New validates the dimensions and returns an out-of-service building.
func New(numFloors, numElevators, capacity int, opts ...Option) (*Building, error) {
	cfg := common.BuildingConfig{
		NumFloors:        numFloors,
		NumElevators:     numElevators,
		ElevatorCapacity: capacity,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{carConfig: common.DefaultCarConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.carConfig.Validate(); err != nil {
		return nil, err
	}
	if o.factory == nil {
		carConfig := o.carConfig
		o.factory = func(id, numFloors, capacity int) common.ElevatorUnit {
			return elevfsm.NewCar(id, numFloors, capacity, carConfig)
		}
	}

	b := &Building{
		config: cfg,
		units:  make([]common.ElevatorUnit, numElevators),
		status: common.StatusOutOfService,
	}
	for i := range b.units {
		b.units[i] = o.factory(i, numFloors, capacity)
	}
	Log.Info().Msgf("building created: %d floors, %d elevators, capacity %d", numFloors, numElevators, capacity)
	return b, nil
}

func (b *Building) NumberOfFloors() int    { return b.config.NumFloors }
func (b *Building) NumberOfElevators() int { return b.config.NumElevators }
func (b *Building) ElevatorCapacity() int  { return b.config.ElevatorCapacity }

func (b *Building) Config() common.BuildingConfig { return b.config }

func (b *Building) Status() common.SystemStatus { return b.status }

// AddRequest queues a request by direction. Rejected requests leave the
// building untouched.
func (b *Building) AddRequest(req *common.Request) error {
	if req == nil {
		return common.InvalidArgument("the request cannot be nil")
	}
	if b.status != common.StatusRunning {
		return common.InvalidState("the elevator system is not running")
	}
	top := b.config.TopFloor()
	if req.Origin < 0 || req.Origin > top || req.Destination < 0 || req.Destination > top {
		return common.InvalidArgument("request %s: floors must be between 0 and %d", req, top)
	}
	if req.Origin == req.Destination {
		return common.InvalidArgument("request %s: start and end floor must be different", req)
	}

	if req.Direction() == common.DirUp {
		b.up.Push(*req)
	} else {
		b.down.Push(*req)
	}
	Log.Debug().Msgf("request %s queued (up=%d down=%d)", req, b.up.Len(), b.down.Len())
	return nil
}

func (b *Building) StartElevatorSystem() error {
	switch b.status {
	case common.StatusRunning:
		return common.InvalidState("the elevator system is already running")
	case common.StatusStopping:
		return common.InvalidState("the elevator system is stopping")
	}
	b.status = common.StatusRunning
	for _, u := range b.units {
		u.Begin()
	}
	Log.Info().Msg("elevator system running")
	return nil
}

// StopElevatorSystem drops every queued request and recalls all units to ground.
func (b *Building) StopElevatorSystem() error {
	if b.status != common.StatusRunning {
		return common.InvalidState("the elevator system is already stopping")
	}
	b.status = common.StatusStopping
	b.up.Clear()
	b.down.Clear()
	for _, u := range b.units {
		u.TakeOutOfService()
	}
	Log.Info().Msg("elevator system stopping")
	return nil
}

// Step advances the building by one tick: lifecycle check, dispatch, then
// every unit once in index order.
func (b *Building) Step() {
	if b.status == common.StatusOutOfService {
		return
	}

	if b.status == common.StatusStopping && b.allAtGround() {
		b.status = common.StatusOutOfService
		Log.Info().Msg("elevator system out of service")
	}

	if b.status == common.StatusRunning {
		elevassigner.AssignRequests(b.units, &b.up, &b.down, b.config.ElevatorCapacity, b.config.NumFloors)
	}

	for _, u := range b.units {
		u.Tick()
	}
}

func (b *Building) allAtGround() bool {
	for _, u := range b.units {
		if u.CurrentFloor() != 0 {
			return false
		}
	}
	return true
}
