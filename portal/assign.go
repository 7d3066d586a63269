package portal

import (
	"errors"
	"fmt"
	"strings"

	"portal-scene/config"
	"portal-scene/scene"
)

// ErrMissingNode is returned when a model lacks a node that needs a
// dedicated material.
var ErrMissingNode = errors.New("model node not found")

// AssignMaterials gives every node under root the baked material, then
// overrides the named nodes: base plane baked, both pole lights the shared
// pole light material, portal light the portal shader. A named node whose
// geometry sits in primitive children passes its material down to them.
//
// All missing names are reported in one error wrapping ErrMissingNode.
// root is left untouched in that case.
func AssignMaterials(root *scene.Node, names config.NodeNames, mats *Materials) error {
	targets := []struct {
		name string
		mat  *scene.Material
	}{
		{names.BasePlane, mats.Baked},
		{names.PoleLightA, mats.PoleLight},
		{names.PoleLightB, mats.PoleLight},
		{names.PortalLight, mats.Portal},
	}

	found := make([]*scene.Node, len(targets))
	var missing []string
	for i, t := range targets {
		found[i] = root.Find(t.name)
		if found[i] == nil {
			missing = append(missing, t.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingNode, strings.Join(missing, ", "))
	}

	root.Traverse(func(n *scene.Node) {
		n.Material = mats.Baked
	})
	for i, t := range targets {
		setSubtreeMaterial(found[i], t.mat)
	}
	return nil
}

// setSubtreeMaterial sets mat on n and on the mesh-only children that
// carry its primitives.
func setSubtreeMaterial(n *scene.Node, mat *scene.Material) {
	n.Material = mat
	if n.Mesh != nil {
		return
	}
	for _, c := range n.Children {
		if c.Mesh != nil && len(c.Children) == 0 && strings.HasPrefix(c.Name, n.Name+"_prim") {
			c.Material = mat
		}
	}
}
