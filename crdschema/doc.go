// Package crdschema completes the schemas of Kubernetes
// CustomResourceDefinitions into structural schemas.
//
// Inputs are YAML or JSON streams holding any mix of
// CustomResourceDefinitions (apiextensions.k8s.io/v1 or v1beta1), bare
// schema documents, and other Kubernetes objects. Every
// openAPIV3Schema of a definition, and every bare schema, is completed
// with [structural.Complete]; other objects pass through unchanged. Key
// order is kept, so the output can be reviewed as a diff of the input.
//
// Typical usage:
//
//	p := crdschema.NewProcessor(crdschema.WithValidate(true))
//
//	results, err := p.Process(ctx, crdschema.Input{Name: "crd.yaml", Data: data})
//	if err != nil {
//	    return err
//	}
//
//	for _, res := range results {
//	    err := res.Encode(os.Stdout, crdschema.FormatAuto, 2)
//	    // ...
//	}
//
// Use [Config] to build a [Processor] from CLI flags, and [Diff] to show
// what completion changed.
package crdschema
