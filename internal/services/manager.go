package services

import (
	"github.com/xin-yuwen/assignment-service/internal/cache"
	"github.com/xin-yuwen/assignment-service/internal/events"
	"github.com/xin-yuwen/assignment-service/internal/repositories"
	"github.com/xin-yuwen/assignment-service/internal/utils"
	appvalidator "github.com/xin-yuwen/assignment-service/internal/validator"
)

// ServiceManager bundles all services behind one dependency for the handlers.
type ServiceManager interface {
	Sequencer() SequencerService
	Recorder() RecorderService
	Export() ExportService
	Assignment() AssignmentService
	Admin() AdminService
}

type serviceManager struct {
	sequencer  SequencerService
	recorder   RecorderService
	export     ExportService
	assignment AssignmentService
	admin      AdminService
}

// NewServiceManager wires the services to their shared dependencies.
func NewServiceManager(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	validator *appvalidator.Validator,
	logger utils.Logger,
) ServiceManager {
	sequencer := NewSequencerService(repo, cacheService, logger)

	return &serviceManager{
		sequencer:  sequencer,
		recorder:   NewRecorderService(repo, sequencer, publisher, validator, logger),
		export:     NewExportService(repo, logger),
		assignment: NewAssignmentService(repo, sequencer, validator, logger),
		admin:      NewAdminService(repo, logger),
	}
}

func (m *serviceManager) Sequencer() SequencerService   { return m.sequencer }
func (m *serviceManager) Recorder() RecorderService     { return m.recorder }
func (m *serviceManager) Export() ExportService         { return m.export }
func (m *serviceManager) Assignment() AssignmentService { return m.assignment }
func (m *serviceManager) Admin() AdminService           { return m.admin }
