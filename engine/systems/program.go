package systems

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spaghettifunk/vista/engine/core"
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/resources"
	"github.com/spaghettifunk/vista/engine/shader"
)

const glslVersion = "#version 330 core"

/** @brief Configuration for the program cache. */
type ProgramCacheConfig struct {
	/** @brief Soft limit of linked programs. Exceeding it only logs a warning. */
	MaxProgramCount uint16
}

// Programs are shared by every material whose shader and parameters are
// structurally equal.
type programKey struct {
	shaderID string
	params   shader.ProgramParameters
}

type ProgramCache struct {
	// This system's configuration.
	Config *ProgramCacheConfig

	programs map[programKey]*shader.Program
	nextID   uint32
	// sub systems
	context gpu.Context
	device  gpu.Device
	library *shader.Library
}

func NewProgramCache(config *ProgramCacheConfig, ctx gpu.Context, dev gpu.Device, lib *shader.Library) (*ProgramCache, error) {
	if dev == nil || lib == nil {
		err := fmt.Errorf("NewProgramCache - device and library are required")
		core.LogError(err.Error())
		return nil, err
	}
	if config.MaxProgramCount == 0 {
		core.LogWarn("NewProgramCache - config.MaxProgramCount is 0, defaulting to 256.")
		config.MaxProgramCount = 256
	}
	return &ProgramCache{
		Config:   config,
		programs: make(map[programKey]*shader.Program),
		context:  ctx,
		device:   dev,
		library:  lib,
	}, nil
}

func (pc *ProgramCache) Library() *shader.Library { return pc.library }

/**
 * @brief Returns the program for (shaderID, params), building it on a miss.
 * Every call counts as one more user of the program.
 */
func (pc *ProgramCache) Get(shaderID string, params shader.ProgramParameters) (*shader.Program, error) {
	key := programKey{shaderID: shaderID, params: params}
	if p, ok := pc.programs[key]; ok {
		p.UsedTimes++
		return p, nil
	}

	s, err := pc.library.Get(shaderID)
	if err != nil {
		return nil, err
	}
	vertex, err := pc.library.Expand(s.VertexSource)
	if err != nil {
		return nil, fmt.Errorf("%w: shader `%s` vertex stage: %s", core.ErrProgramCompile, shaderID, err)
	}
	fragment, err := pc.library.Expand(s.FragmentSource)
	if err != nil {
		return nil, fmt.Errorf("%w: shader `%s` fragment stage: %s", core.ErrProgramCompile, shaderID, err)
	}

	prefix := glslVersion + "\n" + strings.Join(params.Defines(), "\n") + "\n"
	handle, err := pc.device.CreateProgram(prefix+vertex, prefix+fragment)
	if err != nil {
		core.LogError("failed to build program for shader `%s`: %s", shaderID, err)
		return nil, fmt.Errorf("failed to build program for shader `%s`: %w", shaderID, err)
	}

	pc.nextID++
	p := shader.NewProgram(pc.nextID, uuid.NewString(), handle, shaderID, params, pc.device.ActiveAttributes(handle))
	p.Generation = pc.library.Generation(shaderID)
	p.UsedTimes = 1
	pc.programs[key] = p

	core.LogDebug("linked program %d for shader `%s` (%d cached)", p.ID, shaderID, len(pc.programs))
	if len(pc.programs) > int(pc.Config.MaxProgramCount) {
		core.LogWarn("ProgramCache - %d programs exceed the configured maximum of %d.", len(pc.programs), pc.Config.MaxProgramCount)
	}
	return p, nil
}

// Release drops one user of p; the last user frees it.
func (pc *ProgramCache) Release(p *shader.Program) {
	if p == nil {
		return
	}
	p.UsedTimes--
	if p.UsedTimes > 0 {
		return
	}
	key := programKey{shaderID: p.ShaderID, params: p.Parameters}
	if cached, ok := pc.programs[key]; ok && cached == p {
		delete(pc.programs, key)
		pc.destroy(p)
	}
}

// Invalidate drops every program built from shaderID so the next Get
// rebuilds it from the current library source.
func (pc *ProgramCache) Invalidate(shaderID string) int {
	n := 0
	for key, p := range pc.programs {
		if key.shaderID == shaderID {
			delete(pc.programs, key)
			pc.destroy(p)
			n++
		}
	}
	if n > 0 {
		core.LogDebug("invalidated %d programs of shader `%s`", n, shaderID)
	}
	return n
}

func (pc *ProgramCache) Len() int { return len(pc.programs) }

func (pc *ProgramCache) destroy(p *shader.Program) {
	handle := p.Handle
	resources.LazyDelete(pc.context, func(dev gpu.Device) { dev.DeleteProgram(handle) })
}

/**
 * @brief Destroys every cached program. The device context must be current.
 */
func (pc *ProgramCache) Shutdown() error {
	for key, p := range pc.programs {
		pc.device.DeleteProgram(p.Handle)
		delete(pc.programs, key)
	}
	return nil
}
