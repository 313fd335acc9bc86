// Package scene defines the node graph produced by evaluating an input
// script. A scene is a DAG of shape primitives, point clouds, transforms
// and groups; its roots are the solids whose hull is searched.
package scene
