package systems

import (
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/shader"
)

type SystemManagerConfig struct {
	Workers         int
	MaxTextureCount uint32
	MaxProgramCount uint16
	AssetBasePath   string
}

type SystemManager struct {
	jobSystem     *JobSystem
	textureSystem *TextureSystem
	programCache  *ProgramCache

	context gpu.Context
}

func NewSystemManager(config *SystemManagerConfig, ctx gpu.Context, dev gpu.Device, lib *shader.Library) (*SystemManager, error) {
	workers := config.Workers
	if workers <= 0 {
		workers = 1
	}
	js, err := NewJobSystem(workers, 64)
	if err != nil {
		return nil, err
	}
	ts, err := NewTextureSystem(&TextureSystemConfig{
		MaxTextureCount: config.MaxTextureCount,
		AssetBasePath:   config.AssetBasePath,
	}, js)
	if err != nil {
		return nil, err
	}
	pc, err := NewProgramCache(&ProgramCacheConfig{
		MaxProgramCount: config.MaxProgramCount,
	}, ctx, dev, lib)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		jobSystem:     js,
		textureSystem: ts,
		programCache:  pc,
		context:       ctx,
	}, nil
}

func (sm *SystemManager) JobSystem() *JobSystem         { return sm.jobSystem }
func (sm *SystemManager) TextureSystem() *TextureSystem { return sm.textureSystem }
func (sm *SystemManager) ProgramCache() *ProgramCache   { return sm.programCache }

// Update delivers finished background jobs. Call once per frame.
func (sm *SystemManager) Update() {
	sm.jobSystem.Update()
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.jobSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.textureSystem.Shutdown(sm.context); err != nil {
		return err
	}
	return sm.programCache.Shutdown()
}
