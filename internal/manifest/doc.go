// Package manifest loads the package.yml manifest of an FME package and
// exposes a read-only typed view of it.
//
// # Manifest Format
//
//	fpkg_version: 1
//	uid: my-package
//	publisher_uid: example
//	name: My Package
//	description: Greets people
//	version: 0.1.0
//	minimum_fme_build: 23224
//	author:
//	  name: Example Inc.
//	package_content:
//	  transformers:
//	    - name: MyGreeter
//	      version: 1
//	  formats:
//	    - name: DemoFormat
//	  python_packages:
//	    - name: fme-greeter
//
// # Usage
//
//	m, err := manifest.NewLoader().LoadDir("path/to/package")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, t := range m.Transformers() {
//	    fmt.Println(m.FQName(t.Name), t.Version)
//	}
//
// Every manifest is validated against the embedded manifest schema on load.
// Sections that are absent read as empty lists.
package manifest
