package code

import "go.uber.org/fx"

// Module provides the claim code generator.
var Module = fx.Provide(func() Generator { return UUIDGenerator{} })
