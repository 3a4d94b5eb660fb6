package app

import (
	"github.com/vk/wireflow/internal/registry"
	"github.com/vk/wireflow/modules/envread"
	"github.com/vk/wireflow/modules/flow"
	"github.com/vk/wireflow/modules/httpfetch"
	"github.com/vk/wireflow/modules/math"
	"github.com/vk/wireflow/modules/printer"
	"github.com/vk/wireflow/modules/text"
	"github.com/vk/wireflow/modules/timing"
	"github.com/vk/wireflow/modules/trigger"
	"github.com/vk/wireflow/modules/workflow"
)

// coreModules is the definitive list of all modules that are compiled into
// the wireflow binary.
var coreModules = []registry.Module{
	&trigger.Module{},
	&flow.Module{},
	&workflow.Module{},
	&math.Module{},
	&text.Module{},
	&timing.Module{},
	&httpfetch.Module{},
	&envread.Module{},
	&printer.Module{},
}
